package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/weel/internal/actions"
	"github.com/mj1618/weel/internal/output"
)

var pressCmd = &cobra.Command{
	Use:   "press [button]",
	Short: "Press a button on the current page",
	Long: `Press a button by its number on the current page (1 is the top-left
slot, counting row by row) or by its id.

Examples:
  weel press 3
  weel press --id 5f0c...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPress,
}

func init() {
	rootCmd.AddCommand(pressCmd)
	pressCmd.Flags().String("id", "", "Press the button with this id")
}

func runPress(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	if id == "" && len(args) == 0 {
		return fmt.Errorf("specify a button number or --id")
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	var res actions.Result
	if id != "" {
		res, err = sess.deck.PressID(cmd.Context(), id)
	} else {
		index, perr := parseSlot(args[0])
		if perr != nil {
			return perr
		}
		res, err = sess.deck.Press(cmd.Context(), index)
	}
	if err != nil {
		return err
	}
	return printResult(res)
}

// printResult prints res and turns a failed action into a non-zero exit.
func printResult(res actions.Result) error {
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("action failed: %s", res.Message)
	}
	return nil
}
