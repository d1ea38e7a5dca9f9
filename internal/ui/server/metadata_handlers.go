package server

import (
	"context"
	"net/http"

	"github.com/Its-donkey/qrcode-creator/internal/ui/forms"
	"github.com/Its-donkey/qrcode-creator/internal/ui/model"
)

// handleMetadata handles POST requests to /api/metadata.
func (s *server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	var req model.MetadataRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var resp model.MetadataResponse
	if target := forms.CanonicalizeURL(req.URL); target != "" {
		resp = s.lookupMetadata(r.Context(), target)
	}

	// Always 200 with whatever was found.
	s.writeJSON(w, r, http.StatusOK, resp)
}

// lookupMetadata fetches page details, logging rather than returning errors.
func (s *server) lookupMetadata(ctx context.Context, target string) model.MetadataResponse {
	log := s.logger.FromContext(ctx).WithCategory("metadata").WithField("url", target)
	if s.metadata == nil {
		log.Warn("metadata service unavailable")
		return model.MetadataResponse{}
	}

	result, err := s.metadata.Fetch(ctx, target)
	switch {
	case err != nil:
		log.WithField("error", err.Error()).Warn("failed to fetch metadata")
		return model.MetadataResponse{}
	case result == nil:
		log.Warn("metadata unavailable")
		return model.MetadataResponse{}
	}
	log.WithField("title", result.Title).Info("metadata fetched")
	return model.MetadataResponse{Title: result.Title, Description: result.Description}
}
