package utils

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRPayload is the wire contract embedded in every ticket QR code.
// Field order and key names must round-trip exactly - the scanner app
// parses this JSON straight off the camera.
type QRPayload struct {
	UserID  string `json:"userId"`
	EventID string `json:"eventId"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Type    string `json:"type"` // "audience" | "performer"
}

const qrImageSize = 300

// GenerateQRCode renders the payload as a PNG and returns it as a
// base64 data URL. Generated once at registration time and stored on
// the registration row, never recomputed on read.
func GenerateQRCode(payload QRPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR payload: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.High, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// DecodeQRData parses a decoded QR string back into a payload
func DecodeQRData(raw string) (*QRPayload, error) {
	var payload QRPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode QR data: %w", err)
	}
	return &payload, nil
}
