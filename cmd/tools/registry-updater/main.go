// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"brand-content-engine/internal/composition/policy"
	"brand-content-engine/pkg/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var registryPath string

	root := &cobra.Command{
		Use:          "registry-updater",
		Short:        "Maintain the activity registry and composition policy files",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")

	root.AddCommand(
		newValidateCmd(&registryPath),
		newAddCmd(&registryPath),
		newUpdateCmd(&registryPath),
		newCheckVarsCmd(&registryPath),
		newCheckPolicyCmd(),
	)
	return root
}

func newValidateCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the registry for missing fields, duplicates and broken schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadOrDefault(*path)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
			if err := reg.Check(); err != nil {
				return fmt.Errorf("registry validation failed:\n%w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
}

func newAddCmd(path *string) *cobra.Command {
	a := registry.Activity{
		InputSchema:  map[string]interface{}{},
		OutputSchema: map[string]interface{}{},
		ErrorCodes:   []string{},
		Tags:         []string{},
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new activity to the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadOrDefault(*path)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
			for _, existing := range reg.Activities {
				if existing.ID == a.ID {
					return fmt.Errorf("activity with ID %s already exists", a.ID)
				}
			}

			reg.Activities = append(reg.Activities, a)
			reg.LastUpdated = time.Now().Format("2006-01-02")
			if err := registry.Save(reg, *path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", a.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.ID, "id", "", "Activity ID (e.g., content.matrix.generate)")
	f.StringVar(&a.DisplayName, "display-name", "", "Display name")
	f.StringVar(&a.Description, "description", "", "Description")
	f.StringVar(&a.Category, "category", "", "Category (content or composition)")
	f.StringVar(&a.TaskType, "task-type", "", "Zeebe job type")
	f.StringVar(&a.Version, "version", "1.0.0", "Version")
	f.StringVar(&a.ImplementationStatus, "status", "planned", "Implementation status")
	f.StringVar(&a.Timeout, "timeout", "10s", "Job timeout")
	f.IntVar(&a.Retries, "retries", 0, "Retries")
	for _, name := range []string{"id", "display-name", "category", "task-type"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUpdateCmd(path *string) *cobra.Command {
	var id, field, value string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update one field of an existing activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadOrDefault(*path)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}

			var target *registry.Activity
			for i := range reg.Activities {
				if reg.Activities[i].ID == id {
					target = &reg.Activities[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("activity with ID %s not found", id)
			}
			if err := setField(target, field, value); err != nil {
				return err
			}

			reg.LastUpdated = time.Now().Format("2006-01-02")
			if err := registry.Save(reg, *path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&id, "id", "", "Activity ID to update")
	f.StringVar(&field, "field", "", "Field to update (status, version, timeout, retries, ...)")
	f.StringVar(&value, "value", "", "New value for the field")
	for _, name := range []string{"id", "field", "value"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func setField(a *registry.Activity, field, value string) error {
	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "category":
		a.Category = value
	case "taskType":
		a.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

func newCheckVarsCmd(path *string) *cobra.Command {
	var taskType string

	cmd := &cobra.Command{
		Use:   "check-vars <variables.json>",
		Short: "Validate a job variables document against its activity's input schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadOrDefault(*path)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
			if _, ok := reg.Find(taskType); !ok {
				return fmt.Errorf("no activity registered for task type %q", taskType)
			}
			v, err := registry.NewValidator(reg)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read variables: %w", err)
			}
			violations, err := v.Validate(taskType, data)
			if err != nil {
				return err
			}
			if len(violations) > 0 {
				for _, msg := range violations {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", msg)
				}
				return fmt.Errorf("%d schema violation(s) for %s", len(violations), taskType)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Variables are valid for %s.\n", taskType)
			return nil
		},
	}
	cmd.Flags().StringVar(&taskType, "task-type", "", "Zeebe job type the variables are sent to")
	_ = cmd.MarkFlagRequired("task-type")
	return cmd
}

func newCheckPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-policy <policy.yaml>",
		Short: "Load a composition policy file on top of the defaults and list the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := policy.LoadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Policy %s (baseline platform %s)\n", tables.Version, tables.Baseline)
			fmt.Fprintln(out, "Intents:")
			for _, name := range sortedKeys(tables.Intents) {
				fmt.Fprintf(out, "  %-16s %v\n", name, tables.Intents[name].PreferredCategories)
			}
			fmt.Fprintln(out, "Platforms:")
			for _, name := range sortedKeys(tables.Platforms) {
				r := tables.Platforms[name]
				fmt.Fprintf(out, "  %-16s sections %d-%d, budget %d\n", name, r.MinSections, r.MaxSections, r.HeightBudget)
			}
			return nil
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
