package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"smartbin-backend/pkg/utils"
)

// DiagnosticLog is a log line posted by a bin sensor or the mobile app
type DiagnosticLog struct {
	DeviceID  string                 `json:"deviceId"`
	BinID     string                 `json:"binId,omitempty"`
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Firmware  string                 `json:"firmware,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// ReceiveDiagnosticLog handles POST /api/devices/diagnostics.
// Entries are only written to the server log.
func ReceiveDiagnosticLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entry DiagnosticLog
		if err := utils.DecodeJSON(r, &entry); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid_request_body")
			return
		}
		if strings.TrimSpace(entry.Message) == "" {
			utils.RespondError(w, http.StatusBadRequest, "missing_message")
			return
		}

		prefix := "📟"
		switch strings.ToUpper(entry.Level) {
		case "ERROR":
			prefix = "🔴"
		case "WARNING", "WARN":
			prefix = "🟡"
		case "INFO":
			prefix = "🔵"
		}

		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Printf("%s DEVICE DIAGNOSTIC [%s]", prefix, entry.Level)
		log.Printf("   Device:    %s", entry.DeviceID)
		if entry.BinID != "" {
			log.Printf("   Bin:       %s", entry.BinID)
		}
		if entry.Firmware != "" {
			log.Printf("   Firmware:  %s", entry.Firmware)
		}
		log.Printf("   Timestamp: %s", entry.Timestamp)
		log.Printf("   Message:   %s", entry.Message)

		if len(entry.Data) > 0 {
			log.Println("   Data:")
			if dataJSON, err := json.MarshalIndent(entry.Data, "      ", "  "); err == nil {
				log.Printf("      %s", string(dataJSON))
			}
		}
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "received"})
	}
}
