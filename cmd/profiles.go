package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mj1618/weel/internal/model"
	"github.com/mj1618/weel/internal/output"
)

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile"},
	Short:   "List, switch and create profiles",
	RunE:    runProfilesList,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesSwitchCmd = &cobra.Command{
	Use:   "switch <id|name>",
	Short: "Make a profile active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()
		if err := sess.deck.SwitchProfile(cmd.Context(), args[0]); err != nil {
			return err
		}
		return output.Print(sess.deck.State())
	},
}

var profilesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty profile with the current grid size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()
		p, err := sess.deck.CreateProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return output.Print(summarize(p, ""))
	},
}

var pageCmd = &cobra.Command{
	Use:   "page [n]",
	Short: "Show the current page, or switch to page n",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid page %q", args[0])
			}
			if err := sess.deck.GoToPage(cmd.Context(), n); err != nil {
				return err
			}
		}
		return output.Print(sess.deck.State())
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the current profile, page and buttons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()
		return output.Print(sess.deck.State())
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd, pageCmd, stateCmd)
	profilesCmd.AddCommand(profilesListCmd, profilesSwitchCmd, profilesCreateCmd)
}

// ProfileSummary is one row of `weel profiles list`.
type ProfileSummary struct {
	ID       string `yaml:"id"                  json:"id"`
	Name     string `yaml:"name"                json:"name"`
	Grid     string `yaml:"grid"                json:"grid"`
	Pages    int    `yaml:"pages"               json:"pages"`
	Current  bool   `yaml:"current,omitempty"   json:"current,omitempty"`
	AppAware bool   `yaml:"app_aware,omitempty" json:"appAware,omitempty"`
}

func summarize(p model.Profile, currentID string) ProfileSummary {
	return ProfileSummary{
		ID:       p.ID,
		Name:     p.Name,
		Grid:     fmt.Sprintf("%dx%d", p.GridSize.Rows, p.GridSize.Cols),
		Pages:    p.PageCount(),
		Current:  p.ID == currentID,
		AppAware: p.AppAwareSettings != nil && p.AppAwareSettings.Enabled,
	}
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()
	current := sess.deck.State().ProfileID
	var out []ProfileSummary
	for _, p := range sess.deck.Profiles() {
		out = append(out, summarize(p, current))
	}
	return output.Print(out)
}
