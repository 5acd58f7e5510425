package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nu9ve/academy/internal/profile"
)

var buyLifeCmd = &cobra.Command{
	Use:   "buy-life",
	Short: "Spend coins for one life",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		pcfg := env.profiles.Config()
		err = env.profiles.BuyLife(env.ctx)
		switch {
		case errors.Is(err, profile.ErrLivesFull):
			fmt.Printf("Lives are already full (%d/%d).\n", pcfg.MaxLives, pcfg.MaxLives)
			return nil
		case errors.Is(err, profile.ErrInsufficientCoins):
			return fmt.Errorf("a life costs %d coins, you have %d", pcfg.LifePrice, env.profiles.Profile().Coins)
		case err != nil:
			return err
		}

		p := env.profiles.Profile()
		fmt.Printf("✓ Bought a life for %d coins. Lives %d/%d, coins %d.\n", pcfg.LifePrice, p.Lives, pcfg.MaxLives, p.Coins)
		return nil
	},
}
