package vm

import (
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// NativeCallRecord is one logged native-binding invocation, written by
// NativeCallLog when a Machine is constructed with recording enabled
// (`lumen run --record-natives`). Grounded on the teacher's
// DiskCache/DiskPayload msgpack-on-disk pattern (internal/driver/dcache.go).
type NativeCallRecord struct {
	Class      string
	Method     string
	Descriptor string
	ArgCount   int
	Mismatch   bool
}

// NativeCallLog appends NativeCallRecords to a writer as a msgpack
// stream, one record per Encode call. A nil *NativeCallLog is a valid
// no-op sink, matching the teacher's nil-receiver-tolerant DiskCache.
type NativeCallLog struct {
	mu  sync.Mutex
	enc *msgpack.Encoder
}

// NewNativeCallLog wraps w as a msgpack-stream sink.
func NewNativeCallLog(w io.Writer) *NativeCallLog {
	return &NativeCallLog{enc: msgpack.NewEncoder(w)}
}

// Record appends one call record. Safe to call on a nil *NativeCallLog.
func (l *NativeCallLog) Record(rec NativeCallRecord) error {
	if l == nil || l.enc == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(&rec)
}
