package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcastRequest_Validate(t *testing.T) {
	r := BroadcastRequest{Title: " メンテナンスのお知らせ ", Message: "本日22時より"}
	assert.NoError(t, r.Validate())
	assert.Equal(t, "メンテナンスのお知らせ", r.Title)

	assert.Error(t, (&BroadcastRequest{Message: "x"}).Validate())
	assert.Error(t, (&BroadcastRequest{Title: "x"}).Validate())
	assert.Error(t, (&BroadcastRequest{Title: strings.Repeat("あ", 201), Message: "x"}).Validate())
}

func TestAnnouncementInput_Validate(t *testing.T) {
	assert.NoError(t, (&AnnouncementInput{Title: "新機能", Content: "本文"}).Validate())
	assert.Error(t, (&AnnouncementInput{Title: "新機能"}).Validate())
	assert.Error(t, (&AnnouncementInput{Content: "本文"}).Validate())
}

func TestNewInvoice(t *testing.T) {
	inv := NewInvoice(User{ID: "0123456789abcdef", CompanyName: "山田運送"}, "2025-03", 3000, nil, "2025-04-01")
	assert.Equal(t, 300, inv.TaxYen)
	assert.Equal(t, 3300, inv.TotalYen)
	assert.Equal(t, "INV-2025-03-01234567", inv.Number)
}
