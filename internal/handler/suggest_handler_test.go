package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type mockSuggestService struct {
	resp *dto.SlotSuggestionResponse
	err  error
}

func (m *mockSuggestService) SuggestSlots(_ context.Context, _ dto.SlotSuggestionRequest) (*dto.SlotSuggestionResponse, error) {
	return m.resp, m.err
}

func TestSuggestSlotsResponse(t *testing.T) {
	h := NewSuggestHandler(&mockSuggestService{resp: &dto.SlotSuggestionResponse{
		Success: true,
		SuggestedSlots: []dto.Slot{
			{Day: "Monday", StartTime: "10:00:00", EndTime: "12:00:00", Duration: 120},
		},
	}}, nil)

	w := postJSON(t, h.Suggest, "/free_slots", dto.SlotSuggestionRequest{LecturerID: "L1"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.SlotSuggestionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.SuggestedSlots, 1)
	assert.Equal(t, "Monday", resp.SuggestedSlots[0].Day)
}

func TestSuggestSlotsEmptyIsStillSuccess(t *testing.T) {
	h := NewSuggestHandler(&mockSuggestService{resp: &dto.SlotSuggestionResponse{
		Success:        true,
		SuggestedSlots: []dto.Slot{},
	}}, nil)

	w := postJSON(t, h.Suggest, "/free_slots", dto.SlotSuggestionRequest{LecturerID: "L1"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.SlotSuggestionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.SuggestedSlots)
}

func TestSuggestSlotsValidationError(t *testing.T) {
	h := NewSuggestHandler(&mockSuggestService{
		err: appErrors.Clone(appErrors.ErrValidation, "a lecturer or classroom is required"),
	}, nil)

	w := postJSON(t, h.Suggest, "/free_slots", dto.SlotSuggestionRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
