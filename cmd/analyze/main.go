// Command analyze submits a position to a running chessrelay server and
// prints the engine's best move. Intended for quick checks from the shell:
//
//	analyze "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
//	analyze -effort 20 -server http://localhost:9090 "<fen>"
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "request a best move for a FEN position from a chessrelay server",
		ArgsUsage: "FEN",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Value: "http://localhost:8080",
				Usage: "base URL of the chessrelay server",
			},
			&cli.IntFlag{
				Name:  "effort",
				Usage: "search depth (0 uses the server default)",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	fen := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if fen == "" {
		return fmt.Errorf("missing FEN argument")
	}

	body, err := json.Marshal(map[string]interface{}{
		"position": fen,
		"effort":   int(cmd.Int("effort")),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		cmd.String("server")+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	// No client timeout: a saturated pool queues us for as long as it takes.
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("server: %s", errResp.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var result struct {
		Move string `json:"move"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Println(result.Move)
	return nil
}
