package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/conmenu/internal/app"
	"github.com/dshills/conmenu/internal/menu"
	"github.com/dshills/conmenu/internal/script"
)

func newScriptCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "script FILE.lua",
		Short: "Run a Lua menu script",
		Long:  "Run a Lua script that builds menus through the global \"menu\" module.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return runWithApp(flags, func(a *app.Application, ctx *menu.Context) error {
				rt := script.New(ctx, script.WithLogger(a.Logger()))
				defer rt.Close()
				return rt.DoFile(path)
			})
		},
	}
}
