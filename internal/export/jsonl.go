package export

import (
	"encoding/json"
	"fmt"
	"io"

	"firestige.xyz/iexcap/internal/iex"
	"firestige.xyz/iexcap/internal/metrics"
)

// JSONLWriter writes one JSON object per line, any message variant.
type JSONLWriter struct {
	enc *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{enc: json.NewEncoder(w)}
}

func (w *JSONLWriter) Write(msg iex.Message) error {
	if err := w.enc.Encode(msg); err != nil {
		return fmt.Errorf("failed to encode %s message: %w", msg.MessageType(), err)
	}
	metrics.ExportRecordsTotal.WithLabelValues("messages").Inc()
	return nil
}
