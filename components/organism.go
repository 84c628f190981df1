// Package components defines the ECS components carried by every organism.
package components

// Vitals tracks an organism's identity and metabolic state.
type Vitals struct {
	ID         uint64
	Energy     float64 // may dip below zero before culling
	Age        int     // steps survived
	Generation int     // 1 for founders
}
