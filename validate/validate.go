// Package validate contains cheap structural checks for client-supplied
// position strings. The checks reject input that could not possibly be a
// position before it costs an engine exchange; they deliberately do not
// check chess legality.
package validate

import (
	"errors"
	"fmt"
	"strings"
)

// FEN verifies the rough shape of a FEN string: six space-separated fields,
// eight non-empty ranks, and a recognizable side to move.
func FEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return fmt.Errorf("expected 6 FEN fields, got %d", len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("expected 8 ranks, got %d", len(ranks))
	}
	for i, rank := range ranks {
		if rank == "" {
			return fmt.Errorf("rank %d is empty", i+1)
		}
		for _, c := range rank {
			if !strings.ContainsRune("pnbrqkPNBRQK12345678", c) {
				return fmt.Errorf("invalid character %q in position", c)
			}
		}
	}

	if fields[1] != "w" && fields[1] != "b" {
		return fmt.Errorf("invalid side to move %q", fields[1])
	}

	if fields[2] == "" {
		return errors.New("missing castling field")
	}

	return nil
}
