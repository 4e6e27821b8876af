package runtime

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/George-br/WorldVoice/internal/language"
	"github.com/George-br/WorldVoice/internal/pipeline"
	"github.com/George-br/WorldVoice/internal/voice"
)

type previewRequest struct {
	Text   string `json:"text"`
	SayAll bool   `json:"say_all,omitempty"`
}

type previewResponse struct {
	Directives []pipeline.Directive `json:"directives"`
}

// handlePreview runs the pipeline over the posted text and returns the
// directive sequence without dispatching it. This is the library surface
// exposed over HTTP for settings UIs and debugging.
func (r *Runtime) handlePreview(w http.ResponseWriter, req *http.Request) {
	var body previewRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Text == "" {
		http.Error(w, "text must not be empty", http.StatusBadRequest)
		return
	}

	regions, err := r.store.Snapshot(req.Context())
	if err != nil {
		r.logger.Warn("preview snapshot failed", slog.String("error", err.Error()))
		regions = voice.RegionMap{}
	}

	session := r.session
	session.SayAll = body.SayAll
	directives := pipeline.Speak(body.Text, session, regions, r.main)

	writeJSON(w, previewResponse{Directives: directives})
}

type regionBody struct {
	NoSelect bool   `json:"no_select"`
	Engine   string `json:"engine"`
	Voice    string `json:"voice"`
	Variant  string `json:"variant,omitempty"`
	Speed    int    `json:"speed"`
	Pitch    int    `json:"pitch"`
	Volume   int    `json:"volume"`
}

func (r *Runtime) handleListRegions(w http.ResponseWriter, req *http.Request) {
	entries, err := r.store.List(req.Context())
	if err != nil {
		http.Error(w, "failed to list regions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

func (r *Runtime) handlePutRegion(w http.ResponseWriter, req *http.Request) {
	tag := req.PathValue("tag")
	if tag == "" {
		http.Error(w, "missing region tag", http.StatusBadRequest)
		return
	}
	var body regionBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !body.NoSelect {
		if body.Engine == "" || body.Voice == "" {
			http.Error(w, "engine and voice must be set unless no_select", http.StatusBadRequest)
			return
		}
		for _, v := range []int{body.Speed, body.Pitch, body.Volume} {
			if v < 0 || v > 100 {
				http.Error(w, "speed, pitch and volume must be in 0..100", http.StatusBadRequest)
				return
			}
		}
	}

	m := voice.Mapping{
		NoSelect: body.NoSelect,
		Role: voice.Role{
			Engine:  body.Engine,
			Voice:   body.Voice,
			Variant: body.Variant,
			Params:  voice.Params{Speed: body.Speed, Pitch: body.Pitch, Volume: body.Volume},
		},
	}
	if err := r.store.Put(req.Context(), language.Tag(tag), m); err != nil {
		http.Error(w, "failed to store region", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Runtime) handleDeleteRegion(w http.ResponseWriter, req *http.Request) {
	tag := req.PathValue("tag")
	if tag == "" {
		http.Error(w, "missing region tag", http.StatusBadRequest)
		return
	}
	if err := r.store.Remove(req.Context(), language.Tag(tag)); err != nil {
		http.Error(w, "failed to delete region", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
