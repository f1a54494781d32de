package analyst

import "github.com/glasswing-labs/decoy/internal/intel"

// Decision is the final verdict for one incoming turn. Constructed once,
// never mutated, never retained by the service.
type Decision struct {
	ScamDetected          bool      `json:"scamDetected"`
	AgentReply            string    `json:"agentReply"`
	AgentNotes            string    `json:"agentNotes"`
	Intelligence          intel.Set `json:"intelligence"`
	ShouldTriggerCallback bool      `json:"shouldTriggerCallback"`
}
