package llm

import (
	"encoding/base64"
	"time"
)

const (
	retryBaseDelay = time.Second
	retryMaxDelay  = 8 * time.Second
)

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return 4096
	}
	return n
}

func encodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
