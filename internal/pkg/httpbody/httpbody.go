package httpbody

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// 上游回應最大讀取量，Imagen 一次四張 PNG 約數十 MB
const MaxBodyBytes = 64 << 20

// Read 讀取並解壓回應 body，呼叫端仍需自行 Close
func Read(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxBodyBytes)
	}
	// Transport 自動解 gzip 時會拿掉 Content-Encoding
	return Decode(raw, resp.Header)
}

// Decode 依 Content-Encoding 解壓；沒有標頭時以 magic number 判斷
func Decode(raw []byte, h http.Header) ([]byte, error) {
	enc := strings.ToLower(strings.TrimSpace(h.Get("Content-Encoding")))
	switch enc {
	case "gzip":
		return gunzip(raw)
	case "deflate":
		return inflate(raw)
	case "zstd":
		return unzstd(raw)
	case "br":
		return unbrotli(raw)
	case "", "identity":
		switch {
		case isGzip(raw):
			return gunzip(raw)
		case isZstd(raw):
			return unzstd(raw)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported content-encoding %q", enc)
	}
}

// TruncateRunes 截斷前 n 個 rune，避免 UTF-8 亂碼
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "…"
	}
	return s
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func unzstd(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(b, nil)
}

func unbrotli(b []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(b)))
}

func isGzip(b []byte) bool { return len(b) > 2 && b[0] == 0x1f && b[1] == 0x8b }

func isZstd(b []byte) bool {
	return len(b) >= 4 && b[0] == 0x28 && b[1] == 0xB5 && b[2] == 0x2F && b[3] == 0xFD
}
