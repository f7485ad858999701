package commands

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cryptolith/bedrock/pkg/mempool"
	"github.com/cryptolith/bedrock/pkg/procenv"
	"github.com/cryptolith/bedrock/pkg/termecho"
)

// maxPassphrase bounds a single prompt read. It fits the pool's largest
// size class with room to spare.
const maxPassphrase = 512

func NewPromptCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Read a passphrase with terminal echo suppressed",
		Long: `Read a line from stdin with echo turned off, keep it in locked
memory, and print only its length and a truncated digest. With piped
input there is no terminal to quiet and the line is read as-is.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Label the thread so the prompt is identifiable in ps output.
			_ = procenv.SetThreadName("bedrock-prompt")

			buf := mempool.Alloc(maxPassphrase)
			if buf == nil {
				return fmt.Errorf("allocate passphrase buffer")
			}
			defer mempool.Free(buf)

			n, err := readPassphrase(cmd, "Passphrase: ", buf)
			if err != nil {
				return err
			}

			if confirm {
				again := mempool.Alloc(maxPassphrase)
				if again == nil {
					return fmt.Errorf("allocate confirmation buffer")
				}
				defer mempool.Free(again)

				m, err := readPassphrase(cmd, "Confirm: ", again)
				if err != nil {
					return err
				}
				if subtle.ConstantTimeCompare(buf[:n], again[:m]) != 1 {
					return fmt.Errorf("passphrases do not match")
				}
			}

			sum := sha256.Sum256(buf[:n])
			fmt.Fprintf(cmd.OutOrStdout(), "length: %d bytes\n", n)
			fmt.Fprintf(cmd.OutOrStdout(), "sha256: %s\n", hex.EncodeToString(sum[:8]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Prompt twice and require both entries to match")

	return cmd
}

// readPassphrase prints the prompt on stderr, quiets echo for the duration
// of the read when stdin is a terminal, and fills buf with one line.
func readPassphrase(cmd *cobra.Command, prompt string, buf []byte) (int, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	guard, err := termecho.Suppress()
	switch {
	case err == nil:
		defer func() {
			_ = guard.Close()
			// The terminal swallowed the user's newline along with the echo.
			fmt.Fprintln(cmd.ErrOrStderr())
		}()
	case errors.Is(err, termecho.ErrNoTerminal), errors.Is(err, termecho.ErrUnsupported):
		// Piped or redirected input; nothing to quiet.
	default:
		return 0, fmt.Errorf("suppress echo: %w", err)
	}

	return readLine(cmd.InOrStdin(), buf)
}

// readLine reads into buf one byte at a time so the passphrase never
// touches an intermediate buffer outside the caller's control. The
// trailing newline is not stored; a preceding carriage return is dropped.
func readLine(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n : n+1])
		if m > 0 {
			if buf[n] == '\n' {
				buf[n] = 0
				if n > 0 && buf[n-1] == '\r' {
					n--
					buf[n] = 0
				}
				return n, nil
			}
			n++
		}
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("read passphrase: %w", err)
		}
	}
	return n, fmt.Errorf("passphrase exceeds %d bytes", len(buf))
}
