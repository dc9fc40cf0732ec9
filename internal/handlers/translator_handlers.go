package handlers

import (
	"encoding/json"
	"net/http"

	"saarthi/internal/translator"
	"saarthi/pkg/logger"
)

// TranslatorHandlers front the translation proxy used by the chat room's
// see-translation feature. The endpoints answer without auth, like the rest
// of the proxy surface they mirror.
type TranslatorHandlers struct {
	svc *translator.Service
}

func NewTranslatorHandlers(svc *translator.Service) *TranslatorHandlers {
	return &TranslatorHandlers{svc: svc}
}

func (h *TranslatorHandlers) writeResult(w http.ResponseWriter, res *translator.Result, err error) {
	if err != nil {
		logger.Error("Translator proxy error: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "translator proxy error"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Status)
	w.Write(res.Body)
}

func (h *TranslatorHandlers) DetectLanguage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	res, err := h.svc.DetectLanguage(r.Context(), req.Text)
	h.writeResult(w, res, err)
}

func (h *TranslatorHandlers) Translate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req translator.TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Translate(r.Context(), req)
	h.writeResult(w, res, err)
}
