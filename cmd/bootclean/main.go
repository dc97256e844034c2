// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

// bootclean interactively deletes stale boot entries: firmware NVRAM
// entries on the efi side, menu entries and their backing snapshots on
// the grub side.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/oskit/bootclean/cleanup"
	"github.com/oskit/bootclean/config"
	"github.com/oskit/bootclean/efibootmgr"
	"github.com/oskit/bootclean/grubmgr"
	"github.com/oskit/bootclean/system"
)

var (
	cfgPath   string
	assumeYes bool
	pruneKeep int
)

var rootCmd = &cobra.Command{
	Use:           "bootclean",
	Short:         "Interactively delete stale boot entries",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `bootclean lists the boot entries of the platform boot manager, lets you
pick the ones to delete by index, and removes them best effort. The entry
the system currently booted from is never removed.

The efi variant deletes firmware NVRAM entries and keeps BootOrder in
sync. The grub variant deletes the snapshot volumes behind snapshot-backed
menu entries, backs up grub.cfg first and regenerates it afterwards.
Foreign OS entries found by os-prober are reported but left alone, since
the prober would recreate them on the next regeneration.`,
}

var efiCmd = &cobra.Command{
	Use:   "efi",
	Short: "Clean up firmware NVRAM boot entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoot(); err != nil {
			return err
		}
		bm, err := efibootmgr.NewBootManagerFromSystem()
		if err != nil {
			return err
		}
		sess := &cleanup.Session{
			Manager:   bm,
			In:        os.Stdin,
			Out:       os.Stdout,
			AssumeYes: assumeYes,
		}
		return sess.Run(cmd.Context())
	},
}

var grubCmd = &cobra.Command{
	Use:   "grub",
	Short: "Clean up GRUB menu entries and their snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoot(); err != nil {
			return err
		}
		mgr, _, err := newGrubManager()
		if err != nil {
			return err
		}
		sess := &cleanup.Session{
			Manager:     mgr,
			In:          os.Stdin,
			Out:         os.Stdout,
			AssumeYes:   assumeYes,
			OfferReboot: true,
			Reboot:      system.Reboot,
		}
		return sess.Run(cmd.Context())
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove all but the newest snapshot entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoot(); err != nil {
			return err
		}
		mgr, cfg, err := newGrubManager()
		if err != nil {
			return err
		}
		keep := pruneKeep
		if !cmd.Flags().Changed("keep") {
			keep = cfg.PruneKeep
		}
		return mgr.Prune(cmd.Context(), keep, os.Stdout)
	},
}

func newGrubManager() (*grubmgr.Manager, config.Config, error) {
	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, cfgPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	mgr := grubmgr.New(fs, system.NewRunner(), grubmgr.Options{
		ConfigPath:  cfg.GrubConfigPath,
		EnvPath:     cfg.GrubEnvPath,
		MkconfigCmd: cfg.MkconfigCommand,
		SnapshotCmd: cfg.SnapshotCommand,
		VolumeGroup: cfg.VolumeGroup,
	})
	return mgr, cfg, nil
}

func requireRoot() error {
	if !system.IsRoot() {
		return errors.New("bootclean must run as root")
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation before deleting")
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", 2, "snapshot entries to retain")
	grubCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(efiCmd, grubCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
