package response

import (
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestDefaultMessageForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{fiber.StatusOK, MessageOK},
		{fiber.StatusCreated, MessageCreated},
		{fiber.StatusBadRequest, MessageBadRequest},
		{fiber.StatusUnauthorized, MessageUnauthorized},
		{fiber.StatusForbidden, MessageForbidden},
		{fiber.StatusNotFound, MessageNotFound},
		{fiber.StatusConflict, MessageConflict},
		{fiber.StatusInternalServerError, MessageInternalServerError},
		{fiber.StatusBadGateway, MessageInternalServerError},
		{fiber.StatusTeapot, MessageError},
	}

	for _, tt := range tests {
		if got := DefaultMessageForStatus(tt.status); got != tt.want {
			t.Fatalf("status %d: got %q, want %q", tt.status, got, tt.want)
		}
	}
}
