package capability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newEngineServer(t *testing.T) (*httptest.Server, *EngineClient) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/translate", func(w http.ResponseWriter, r *http.Request) {
		var in engineTranslateRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if in.SourceLanguage == "" || in.TargetLanguage == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(engineErrorResponse{Error: "missing language pair"})
			return
		}
		json.NewEncoder(w).Encode(engineTranslateResponse{
			TranslatedText: "(" + in.SourceLanguage + ">" + in.TargetLanguage + ") " + in.Text,
		})
	})
	mux.HandleFunc("/v1/detect", func(w http.ResponseWriter, r *http.Request) {
		var in engineDetectRequest
		json.NewDecoder(r.Body).Decode(&in)
		json.NewEncoder(w).Encode(engineDetectResponse{Candidates: []Candidate{
			{Language: "es", Confidence: 0.81},
			{Language: "pt", Confidence: 0.12},
		}})
	})
	mux.HandleFunc("/v1/summarize", func(w http.ResponseWriter, r *http.Request) {
		var in engineSummarizeRequest
		json.NewDecoder(r.Body).Decode(&in)
		if in.Options.Style == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(engineErrorResponse{Error: "options required"})
			return
		}
		json.NewEncoder(w).Encode(engineSummarizeResponse{Summary: "summary of: " + in.Text})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, NewEngineClient(srv.URL)
}

func TestEngineTranslateRoundTrip(t *testing.T) {
	t.Parallel()

	_, client := newEngineServer(t)
	sess, err := client.NewSession(context.Background(), "es", "en")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	out, err := sess.Translate(context.Background(), "hola")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "(es>en) hola" {
		t.Fatalf("Translate = %q", out)
	}
}

func TestEngineRejectsUnsupportedPair(t *testing.T) {
	t.Parallel()

	_, client := newEngineServer(t)
	if _, err := client.NewSession(context.Background(), "en", "de"); err == nil {
		t.Fatal("NewSession accepted an unsupported target")
	}
	if _, err := client.NewSession(context.Background(), "xx", "fr"); err == nil {
		t.Fatal("NewSession accepted an unsupported source")
	}
}

func TestEngineDetectReturnsCandidates(t *testing.T) {
	t.Parallel()

	_, client := newEngineServer(t)
	candidates, err := client.Detect(context.Background(), "hola amigo")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(candidates) != 2 || candidates[0].Language != "es" {
		t.Fatalf("candidates = %+v", candidates)
	}
}

func TestEngineSummarizeSendsOptions(t *testing.T) {
	t.Parallel()

	_, client := newEngineServer(t)
	out, err := client.Summarize(context.Background(), "a tale", DefaultSummaryOptions())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "summary of: a tale" {
		t.Fatalf("Summarize = %q", out)
	}

	// The daemon rejects a zero Options payload, so the error path surfaces
	// the daemon's message.
	if _, err := client.Summarize(context.Background(), "a tale", SummaryOptions{}); err == nil {
		t.Fatal("Summarize succeeded without options")
	} else if !strings.Contains(err.Error(), "options required") {
		t.Fatalf("error does not carry the daemon message: %v", err)
	}
}

func TestEngineErrorStatusWithoutBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := NewEngineClient(srv.URL + "/") // trailing slash is normalized away
	_, err := client.Detect(context.Background(), "hello")
	if err == nil {
		t.Fatal("Detect succeeded against a failing daemon")
	}
	if !strings.Contains(err.Error(), "status 503") {
		t.Fatalf("error = %v, want status 503", err)
	}
}

func TestEngineInvalidJSONResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	t.Cleanup(srv.Close)

	client := NewEngineClient(srv.URL)
	if _, err := client.Detect(context.Background(), "hello"); err == nil {
		t.Fatal("Detect accepted a garbage response")
	}
}
