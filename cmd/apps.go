package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mj1618/weel/internal/actions"
	"github.com/mj1618/weel/internal/output"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Manage app-aware page switching for the current profile",
	Long: `When app-aware switching is on, bringing a mapped application to the
front shows its page, unless the current page is pinned.

Examples:
  weel apps map Figma 2
  weel apps enable
  weel apps unmap Figma`,
	RunE: runAppsList,
}

var appsMapCmd = &cobra.Command{
	Use:   "map <app> <page>",
	Short: "Show page when app is in front",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := strconv.Atoi(args[1])
		if err != nil || page < 1 {
			return fmt.Errorf("invalid page %q", args[1])
		}
		return mapApp(cmd, args[0], page)
	},
}

var appsUnmapCmd = &cobra.Command{
	Use:   "unmap <app>",
	Short: "Remove the mapping for app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mapApp(cmd, args[0], 0)
	},
}

var appsEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Turn app-aware switching on",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return setAppAware(cmd, true) },
}

var appsDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Turn app-aware switching off",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return setAppAware(cmd, false) },
}

var appsDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the suggested mappings for common apps, or apply them",
	Args:  cobra.NoArgs,
	RunE:  runAppsDefaults,
}

func init() {
	rootCmd.AddCommand(appsCmd)
	appsCmd.AddCommand(appsMapCmd, appsUnmapCmd, appsEnableCmd, appsDisableCmd, appsDefaultsCmd)
	appsDefaultsCmd.Flags().Bool("apply", false, "Map every suggested app whose page exists on the current profile")
}

// AppMapping is one row of `weel apps`.
type AppMapping struct {
	App  string `yaml:"app"  json:"app"`
	Page int    `yaml:"page" json:"page"`
}

// AppsResult is the output of `weel apps`.
type AppsResult struct {
	Enabled  bool         `yaml:"enabled"  json:"enabled"`
	Mappings []AppMapping `yaml:"mappings" json:"mappings"`
}

func runAppsList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()
	return output.Print(appsResult(sess))
}

func appsResult(sess *session) AppsResult {
	p := sess.deck.Current()
	res := AppsResult{Mappings: []AppMapping{}}
	if s := p.AppAwareSettings; s != nil {
		res.Enabled = s.Enabled
		for app, page := range s.AppMappings {
			res.Mappings = append(res.Mappings, AppMapping{App: app, Page: page})
		}
	}
	sort.Slice(res.Mappings, func(i, j int) bool { return res.Mappings[i].App < res.Mappings[j].App })
	return res
}

func mapApp(cmd *cobra.Command, app string, page int) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()
	if err := sess.deck.MapApp(cmd.Context(), app, page); err != nil {
		return err
	}
	return output.Print(appsResult(sess))
}

func setAppAware(cmd *cobra.Command, enabled bool) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()
	if err := sess.deck.SetAppAware(cmd.Context(), enabled); err != nil {
		return err
	}
	return output.Print(appsResult(sess))
}

func runAppsDefaults(cmd *cobra.Command, args []string) error {
	defaults := actions.DefaultAppMappings()
	if apply, _ := cmd.Flags().GetBool("apply"); !apply {
		res := AppsResult{Mappings: []AppMapping{}}
		for app, page := range defaults {
			res.Mappings = append(res.Mappings, AppMapping{App: app, Page: page})
		}
		sort.Slice(res.Mappings, func(i, j int) bool { return res.Mappings[i].App < res.Mappings[j].App })
		return output.Print(res)
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()
	pages := sess.deck.Current().PageCount()
	for app, page := range defaults {
		if page > pages {
			logger.Debug("skipping suggested mapping", "app", app, "page", page, "pages", pages)
			continue
		}
		if err := sess.deck.MapApp(cmd.Context(), app, page); err != nil {
			return err
		}
	}
	return output.Print(appsResult(sess))
}
