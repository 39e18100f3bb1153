package httpx

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
)

var idSeq atomic.Uint64

// genID returns a short random identifier for log correlation.
func genID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err == nil {
		return hex.EncodeToString(b[:])
	}
	// Sequence fallback keeps IDs unique within the process.
	return "seq-" + strconv.FormatUint(idSeq.Add(1), 10)
}
