package dtos

import "github.com/aliavon/ExpenseBuddy-sub001/internal/revocation"

type HealthCheckResponse struct {
	Status      string            `json:"status"`
	Revocations revocation.Health `json:"revocations"`
}
