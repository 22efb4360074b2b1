package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// Fixed replies returned when the service cannot be reached.
const (
	SummaryUnavailable = "Summary unavailable."
	ChatUnavailable    = "System breach detected in communication. Please try again later."
)

// Persona is the system instruction sent with every chat.
const Persona = "You are the DarkCyber Vault Assistant. You help users manage their cloud storage, analyze file security, and provide technical advice on encryption. Be concise, futuristic, and professional."

// Chat roles as understood by the generative-language service.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

var (
	ErrNotConfigured = errors.New("generative AI API key not configured")
	ErrSchema        = errors.New("response does not match the analysis schema")
)

// Turn is one role-tagged message of conversational history.
type Turn struct {
	Role string
	Text string
}

// Request is a single-shot generation request. A non-nil Schema asks the
// service for a JSON response shaped by it.
type Request struct {
	Model  string
	Prompt string
	Schema *genai.Schema
}

// ChatRequest replays History under the System instruction and sends Message.
type ChatRequest struct {
	Model   string
	System  string
	History []Turn
	Message string
}

// Generator is the boundary to the external generative-language service.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Converse(ctx context.Context, req ChatRequest) (string, error)
}

// ScanResult is the structured reply of a security analysis.
// RiskScore is nil when the service omitted it.
type ScanResult struct {
	RiskScore      *float64 `json:"riskScore,omitempty"`
	ThreatSummary  string   `json:"threatSummary,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// analysisSchema constrains the analysis reply to the three ScanResult fields.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"riskScore":      {Type: genai.TypeNumber},
		"threatSummary":  {Type: genai.TypeString},
		"recommendation": {Type: genai.TypeString},
	},
	Required: []string{"riskScore", "threatSummary", "recommendation"},
}
