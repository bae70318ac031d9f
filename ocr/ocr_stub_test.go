//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New()
	if err == nil {
		t.Error("Expected error from New() when OCR is disabled")
	}
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when OCR is disabled")
	}
	if Enabled {
		t.Error("Enabled should be false without the ocr tag")
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	err := client.Close()
	if err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
}

func TestDescribeReturnsError(t *testing.T) {
	var client *Client
	if _, err := client.Describe([]byte{1}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Describe() error = %v, want ErrOCRNotEnabled", err)
	}
}
