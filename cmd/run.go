package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/weel/internal/model"
)

var runCmd = &cobra.Command{
	Use:   "run <file|->",
	Short: "Run an action described in a YAML or JSON file",
	Long: `Run an action that is not bound to a button. The file holds one action
object with a type field, in YAML or JSON. Use - to read stdin.

Examples:
  weel run focus.yaml
  echo '{"type":"website","value":"example.com"}' | weel run -
  weel run --wait pomodoro.yaml

focus.yaml:
  type: multi_action
  value: Focus mode
  steps:
    - type: system_open_app
      value: Slack
    - type: hotkey
      value: cmd+shift+a
      delay: 500`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("wait", false, "Keep running until interrupted so timers and audio can finish")
}

func runRun(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read action: %w", err)
	}
	action, err := decodeAction(data)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	res := sess.deck.Run(cmd.Context(), action, "cli")
	if wait, _ := cmd.Flags().GetBool("wait"); wait && res.Success {
		if err := printResult(res); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		return nil
	}
	return printResult(res)
}

// decodeAction accepts YAML or JSON. YAML is a superset of JSON, so both
// go through the YAML decoder and are re-encoded as the JSON form the
// model understands.
func decodeAction(data []byte) (model.ButtonAction, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode action: empty document")
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	return model.UnmarshalAction(b)
}
