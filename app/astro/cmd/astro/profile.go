package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/engine"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "查看或修改用户资料",
}

var profileFlags struct {
	name      string
	birthday  string
	birthTime string
	city      string
	state     string
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "保存用户资料，同时清除星盘缓存",
	RunE: func(cmd *cobra.Command, args []string) error {
		birthday, err := time.Parse(dm.DateLayout, profileFlags.birthday)
		if err != nil {
			return fmt.Errorf("birthday must be YYYY-MM-DD: %w", err)
		}
		p := &dm.Profile{
			Name:      profileFlags.name,
			Birthday:  birthday,
			BirthTime: profileFlags.birthTime,
			City:      profileFlags.city,
			State:     profileFlags.state,
		}
		if err := eng.SaveProfile(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "资料已保存")
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前用户资料",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := eng.Profile(cmd.Context())
		if errors.Is(err, engine.ErrProfileRequired) {
			fmt.Fprintln(cmd.OutOrStdout(), "还没有资料，请先运行 astro profile set")
			return nil
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:       %s\n", p.Name)
		fmt.Fprintf(out, "Birthday:   %s\n", p.Birthday.Format(dm.DateLayout))
		if p.BirthTime != "" {
			fmt.Fprintf(out, "Birth time: %s\n", p.BirthTime)
		}
		fmt.Fprintf(out, "Location:   %s\n", p.Location())
		return nil
	},
}

func init() {
	f := profileSetCmd.Flags()
	f.StringVar(&profileFlags.name, "name", "", "姓名")
	f.StringVar(&profileFlags.birthday, "birthday", "", "生日 (YYYY-MM-DD)")
	f.StringVar(&profileFlags.birthTime, "time", "", "出生时间 (HH:MM)")
	f.StringVar(&profileFlags.city, "city", "", "出生城市")
	f.StringVar(&profileFlags.state, "state", "", "出生州/省")
	_ = profileSetCmd.MarkFlagRequired("name")
	_ = profileSetCmd.MarkFlagRequired("birthday")

	profileCmd.AddCommand(profileSetCmd, profileShowCmd)
}
