// Package qr genera los códigos QR de las mesas.
package qr

import "github.com/skip2/go-qrcode"

// Generator implementa ports.QRGenerator con go-qrcode.
type Generator struct {
	Level qrcode.RecoveryLevel
}

// NewGenerator usa corrección de errores media.
func NewGenerator() Generator {
	return Generator{Level: qrcode.Medium}
}

// Generate devuelve un PNG cuadrado de size píxeles.
func (g Generator) Generate(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, g.Level, size)
}
