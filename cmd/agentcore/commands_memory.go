package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/agentcore/internal/config"
	"github.com/haasonsaas/agentcore/internal/memorystore"
)

// buildMemoryCmd exposes the Memory Store's save/read/list/delete
// operations (spec §3/§6) directly, for operators inspecting or seeding an
// agent's persistent key-value memory outside of a run.
func buildMemoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect or edit the Memory Store",
	}
	cmd.AddCommand(
		buildMemorySaveCmd(),
		buildMemoryReadCmd(),
		buildMemoryListCmd(),
		buildMemoryDeleteCmd(),
	)
	return cmd
}

func openMemoryStore(configPath string) (*memorystore.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return memorystore.Open(cfg.Session.MemoryPath)
}

func buildMemorySaveCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "save <key> <value>",
		Short: "Save a key/value pair to the Memory Store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openMemoryStore(configPath)
			if err != nil {
				return err
			}
			if err := store.Save(args[0], args[1]); err != nil {
				return fmt.Errorf("save %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %q\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	return cmd
}

func buildMemoryReadCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "read <key>",
		Short: "Read a value from the Memory Store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openMemoryStore(configPath)
			if err != nil {
				return err
			}
			value, err := store.Read(args[0])
			if err != nil {
				return fmt.Errorf("read %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	return cmd
}

func buildMemoryListCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every key currently stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openMemoryStore(configPath)
			if err != nil {
				return err
			}
			keys := store.List()
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	return cmd
}

func buildMemoryDeleteCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a key from the Memory Store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openMemoryStore(configPath)
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return fmt.Errorf("delete %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	return cmd
}
