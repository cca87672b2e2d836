package model

import (
	"testing"
)

func TestSignatureField_EffectiveSize(t *testing.T) {
	tests := []struct {
		name       string
		field      SignatureField
		wantWidth  float64
		wantHeight float64
	}{
		{
			name:       "签名域默认尺寸",
			field:      SignatureField{Type: FieldTypeSignature},
			wantWidth:  180,
			wantHeight: 60,
		},
		{
			name:       "日期域默认尺寸",
			field:      SignatureField{Type: FieldTypeDate},
			wantWidth:  180,
			wantHeight: 40,
		},
		{
			name:       "文本域默认尺寸",
			field:      SignatureField{Type: FieldTypeText},
			wantWidth:  180,
			wantHeight: 40,
		},
		{
			name:       "显式尺寸优先",
			field:      SignatureField{Type: FieldTypeSignature, Width: 200, Height: 80},
			wantWidth:  200,
			wantHeight: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.EffectiveWidth(); got != tt.wantWidth {
				t.Errorf("EffectiveWidth() = %v, want %v", got, tt.wantWidth)
			}
			if got := tt.field.EffectiveHeight(); got != tt.wantHeight {
				t.Errorf("EffectiveHeight() = %v, want %v", got, tt.wantHeight)
			}
		})
	}
}

func TestSignatureRequest_IsSigned(t *testing.T) {
	tests := []struct {
		status RequestStatus
		want   bool
	}{
		{StatusSigned, true},
		{StatusCompleted, true},
		{StatusPending, false},
		{StatusDeclined, false},
	}

	for _, tt := range tests {
		r := &SignatureRequest{Status: tt.status}
		if got := r.IsSigned(); got != tt.want {
			t.Errorf("IsSigned() with status %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSignatureRequest_SignedValueIndex(t *testing.T) {
	r := &SignatureRequest{
		SignedValues: []SignedValue{
			{FieldID: "f1", TextValue: "hello"},
			{FieldID: "f2", DateValue: "2026-01-02"},
		},
	}

	index := r.SignedValueIndex()
	if len(index) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(index))
	}
	if index["f1"].TextValue != "hello" {
		t.Errorf("Expected text value 'hello', got '%s'", index["f1"].TextValue)
	}

	// 未命中表示该域未填写
	if _, ok := index["missing"]; ok {
		t.Error("Expected lookup miss for unknown field id")
	}
}

func TestDocument_HasFile(t *testing.T) {
	if (&Document{}).HasFile() {
		t.Error("Expected HasFile to be false for empty document")
	}
	if !(&Document{FileKey: "docs/a.pdf"}).HasFile() {
		t.Error("Expected HasFile to be true with FileKey")
	}
	if !(&Document{FileURL: "https://example.com/a.pdf"}).HasFile() {
		t.Error("Expected HasFile to be true with FileURL")
	}
}
