package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var maxGameID = big.NewInt(99999999)

// GenerateGameID - generates a unique identifier for the game.
func GenerateGameID() (string, error) {
	n, err := rand.Int(rand.Reader, maxGameID)
	if err != nil {
		return "", fmt.Errorf("failed to generate game id: %w", err)
	}

	return n.String(), nil
}
