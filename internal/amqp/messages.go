package amqp

import (
	"encoding/json"
	"time"
)

// ImportCompletedMessage announces that an upload was persisted. Consumers
// interested in fresh data (report builders, cache warmers) key off it.
type ImportCompletedMessage struct {
	Filename     string    `json:"filename"`
	ImportedRows int64     `json:"imported_rows"`
	TotalRows    int64     `json:"total_rows"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewImportCompletedMessage(filename string, importedRows, totalRows int64) *ImportCompletedMessage {
	return &ImportCompletedMessage{
		Filename:     filename,
		ImportedRows: importedRows,
		TotalRows:    totalRows,
		Timestamp:    time.Now(),
	}
}

func (m *ImportCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ImportCompletedMessageFromJSON(data []byte) (*ImportCompletedMessage, error) {
	var msg ImportCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
