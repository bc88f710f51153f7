package domain

import "time"

type User struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Prediction records a single inference request served through a trained
// model. The model binary itself never leaves the object store; inference
// is delegated to the training engine.
type Prediction struct {
	ID            string                 `json:"id"`
	OwnerID       string                 `json:"owner_id"`
	ModelID       string                 `json:"model_id"`
	Input         map[string]interface{} `json:"input"`
	Outputs       []interface{}          `json:"outputs"`
	Probabilities [][]float64            `json:"probabilities,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}
