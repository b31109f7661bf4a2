package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"studydash/internal/app"
)

// recordKind describes one editable collection and the flags its add and edit
// commands accept.
type recordKind struct {
	use    string
	plural string
	flags  []recordFlag
	add    func(a *app.DashApp, f app.Fields) (string, error)
	edit   func(a *app.DashApp, id string, f app.Fields) error
	remove func(a *app.DashApp, id string) error
}

type recordFlag struct {
	name  string
	usage string
}

var recordKinds = []recordKind{
	{
		use:    "course",
		plural: "courses",
		flags: []recordFlag{
			{"name", "Course name"},
			{"instructor", "Instructor"},
			{"color", "Hex or named color"},
			{"location", "Room or building"},
		},
		add: func(a *app.DashApp, f app.Fields) (string, error) {
			c, err := a.AddCourse(f)
			return c.ID, err
		},
		edit: func(a *app.DashApp, id string, f app.Fields) error {
			_, err := a.EditCourse(id, f)
			return err
		},
		remove: (*app.DashApp).RemoveCourse,
	},
	{
		use:    "slot",
		plural: "time slots",
		flags: []recordFlag{
			{"course", "Course id"},
			{"day", "Weekday (monday..sunday)"},
			{"start", "Start time (HH:MM)"},
			{"end", "End time (HH:MM)"},
		},
		add: func(a *app.DashApp, f app.Fields) (string, error) {
			s, err := a.AddSlot(f)
			return s.ID, err
		},
		edit: func(a *app.DashApp, id string, f app.Fields) error {
			_, err := a.EditSlot(id, f)
			return err
		},
		remove: (*app.DashApp).RemoveSlot,
	},
	{
		use:    "assignment",
		plural: "assignments",
		flags: []recordFlag{
			{"title", "Title"},
			{"description", "Description"},
			{"course", "Course id"},
			{"due", `Due date ("YYYY-MM-DD HH:MM" or YYYY-MM-DD for end of day)`},
			{"priority", "low, medium or high"},
			{"status", "todo, in-progress or completed"},
		},
		add: func(a *app.DashApp, f app.Fields) (string, error) {
			as, err := a.AddAssignment(f)
			return as.ID, err
		},
		edit: func(a *app.DashApp, id string, f app.Fields) error {
			_, err := a.EditAssignment(id, f)
			return err
		},
		remove: (*app.DashApp).RemoveAssignment,
	},
	{
		use:    "event",
		plural: "events",
		flags: []recordFlag{
			{"title", "Title"},
			{"description", "Description"},
			{"date", `Date ("YYYY-MM-DD HH:MM" or YYYY-MM-DD)`},
			{"type", "assignment, exam or reminder"},
			{"course", "Course id (empty for none)"},
			{"color", "Hex or named color (defaults to the course color)"},
		},
		add: func(a *app.DashApp, f app.Fields) (string, error) {
			e, err := a.AddEvent(f)
			return e.ID, err
		},
		edit: func(a *app.DashApp, id string, f app.Fields) error {
			_, err := a.EditEvent(id, f)
			return err
		},
		remove: (*app.DashApp).RemoveEvent,
	},
}

// changedFields collects the flags the user actually set, so edit leaves the rest alone.
func changedFields(cmd *cobra.Command, flags []recordFlag) app.Fields {
	f := app.Fields{}
	for _, fl := range flags {
		if cmd.Flags().Changed(fl.name) {
			v, _ := cmd.Flags().GetString(fl.name)
			f[fl.name] = v
		}
	}
	return f
}

func newRecordCmd(k recordKind) *cobra.Command {
	parent := &cobra.Command{
		Use:   k.use,
		Short: fmt.Sprintf("Manage %s", k.plural),
	}

	add := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s", k.use),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, k.use+" add", func(a *app.DashApp) error {
				id, err := k.add(a, changedFields(cmd, k.flags))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", k.use, id)
				return nil
			})
		},
	}

	edit := &cobra.Command{
		Use:   "edit ID",
		Short: fmt.Sprintf("Change fields of a %s", k.use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := changedFields(cmd, k.flags)
			if len(f) == 0 {
				return fmt.Errorf("nothing to change: set at least one flag")
			}
			return runApp(cmd, k.use+" edit", func(a *app.DashApp) error {
				if err := k.edit(a, args[0], f); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", k.use, args[0])
				return nil
			})
		},
	}

	for _, fl := range k.flags {
		add.Flags().String(fl.name, "", fl.usage)
		edit.Flags().String(fl.name, "", fl.usage)
	}

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: fmt.Sprintf("Remove a %s", k.use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, k.use+" rm", func(a *app.DashApp) error {
				if err := k.remove(a, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", k.use, args[0])
				return nil
			})
		},
	}

	parent.AddCommand(add, edit, rm)
	return parent
}

var assignmentAdvanceCmd = &cobra.Command{
	Use:   "advance ID",
	Short: "Move an assignment to its next status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "assignment advance", func(a *app.DashApp) error {
			as, err := a.AdvanceAssignment(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", as.Title, as.Status)
			return nil
		})
	},
}

// user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the user profile",
}

var userSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change name or email",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := changedFields(cmd, []recordFlag{{name: "name"}, {name: "email"}})
		if len(f) == 0 {
			return fmt.Errorf("nothing to change: set --name or --email")
		}
		return runApp(cmd, "user set", func(a *app.DashApp) error {
			u, err := a.UpdateUser(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User: %s <%s>\n", u.Name, u.Email)
			return nil
		})
	},
}

func addRecordCommands(root *cobra.Command) {
	for _, k := range recordKinds {
		c := newRecordCmd(k)
		if k.use == "assignment" {
			c.AddCommand(assignmentAdvanceCmd)
		}
		root.AddCommand(c)
	}

	userSetCmd.Flags().String("name", "", "Display name")
	userSetCmd.Flags().String("email", "", "Email address")
	userCmd.AddCommand(userSetCmd)
	root.AddCommand(userCmd)
}
