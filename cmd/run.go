package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nu9ve/academy/internal/app"
	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/screens/home"
	"github.com/nu9ve/academy/internal/screens/level"
)

// runApp opens the environment and launches the TUI, optionally straight
// into the level with id startID.
func runApp(cmd *cobra.Command, startID string) error {
	env, err := openEnv(cmd, envOptions{tui: true})
	if err != nil {
		return err
	}
	defer env.Close()

	var start *content.Level
	if startID != "" {
		if err := env.profiles.CanPlay(env.ctx, startID); err != nil {
			return err
		}
		l, _ := env.catalog.Level(startID)
		start = &l
	}

	opts := app.Options{
		Home: home.Deps{
			Catalog: env.catalog,
			Level: level.Deps{
				Profiles: env.profiles,
				Events:   env.store.EventRepo(),
				Config:   env.cfg.SessionConfig(),
			},
		},
		StartLevel: start,
		Splash:     !noSplash(cmd),
		Greeting:   greeting(env),
	}

	env.log.Info().Int("levels", len(env.catalog.Levels())).Msg("starting tui")
	return app.Run(env.ctx, opts)
}

func noSplash(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("no-splash")
	return v
}

// greeting welcomes back a returning learner; new learners get the default
// tagline.
func greeting(env *appEnv) string {
	p := env.profiles.Profile()
	if p.Completed() == 0 {
		return ""
	}
	return fmt.Sprintf("¡Hola de nuevo! Vas en el nivel %d.", p.PlayerLevel(env.profiles.Config()))
}
