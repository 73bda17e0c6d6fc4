package ws

import "encoding/json"

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	TypeJobAccepted     = "job:accepted"
	TypeJobCompleted    = "job:completed"
	TypeJobFailed       = "job:failed"
	TypeBuildingCreated = "building:created"
	TypeRecordsAdded    = "records:added"
)

type JobAcceptedPayload struct {
	JobID      string `json:"job_id"`
	BuildingID string `json:"building_id"`
	Algorithm  string `json:"algorithm"`
	AcceptedAt string `json:"accepted_at"`
}

type JobCompletedPayload struct {
	JobID           string  `json:"job_id"`
	BuildingID      string  `json:"building_id"`
	Algorithm       string  `json:"algorithm"`
	RSquared        float64 `json:"r_squared"`
	SuggestionCount int     `json:"suggestion_count"`
	SavingsPercent  float64 `json:"savings_percent"`
	CompletedAt     string  `json:"completed_at"`
}

type JobFailedPayload struct {
	JobID      string `json:"job_id"`
	BuildingID string `json:"building_id"`
	Algorithm  string `json:"algorithm"`
	Error      string `json:"error"`
}

type BuildingCreatedPayload struct {
	BuildingID   string `json:"building_id"`
	BuildingType string `json:"building_type"`
}

type RecordsAddedPayload struct {
	BuildingID string `json:"building_id"`
	Count      int    `json:"count"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
