package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solarops/solar-console/domain"
)

var academyCmd = &cobra.Command{
	Use:   "academy",
	Short: "Manage academy courses, students and groups",
}

var courseCmd = &cobra.Command{
	Use:     "course",
	Short:   "Manage courses",
	Aliases: []string{"courses"},
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		courses, err := sdk.Academy().Courses(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list courses: %w", err)
		}
		return printYAML(courses)
	},
}

var courseCreateCmd = &cobra.Command{
	Use:   "create [TITLE]",
	Short: "Create a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		hours, _ := cmd.Flags().GetInt("hours")

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		course, err := sdk.Academy().CreateCourse(cmd.Context(), domain.Course{
			Title:       args[0],
			Description: description,
			Hours:       hours,
			Active:      true,
		})
		if err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}
		return printYAML(course)
	},
}

var courseDeleteCmd = &cobra.Command{
	Use:   "delete [COURSE_ID]",
	Short: "Delete a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		return sdk.Academy().DeleteCourse(cmd.Context(), id)
	},
}

var studentCmd = &cobra.Command{
	Use:     "student",
	Short:   "Manage students",
	Aliases: []string{"students"},
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students, optionally for one group",
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, _ := cmd.Flags().GetInt64("group")

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		students, err := sdk.Academy().Students(cmd.Context(), groupID)
		if err != nil {
			return fmt.Errorf("failed to list students: %w", err)
		}
		return printYAML(students)
	},
}

var studentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Enroll a student",
	RunE: func(cmd *cobra.Command, args []string) error {
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		email, _ := cmd.Flags().GetString("email")
		groupID, _ := cmd.Flags().GetInt64("group")
		if firstName == "" || lastName == "" {
			return fmt.Errorf("--first-name and --last-name are required")
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		student, err := sdk.Academy().CreateStudent(cmd.Context(), domain.Student{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			GroupID:   groupID,
		})
		if err != nil {
			return fmt.Errorf("failed to create student: %w", err)
		}
		return printYAML(student)
	},
}

var studentDeleteCmd = &cobra.Command{
	Use:   "delete [STUDENT_ID]",
	Short: "Remove a student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		return sdk.Academy().DeleteStudent(cmd.Context(), id)
	},
}

var groupCmd = &cobra.Command{
	Use:     "group",
	Short:   "Manage course groups",
	Aliases: []string{"groups"},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		groups, err := sdk.Academy().Groups(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list groups: %w", err)
		}
		return printYAML(groups)
	},
}

var groupCreateCmd = &cobra.Command{
	Use:   "create [NAME]",
	Short: "Create a group for a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, _ := cmd.Flags().GetInt64("course")
		if courseID == 0 {
			return fmt.Errorf("--course is required")
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		group, err := sdk.Academy().CreateGroup(cmd.Context(), domain.Group{
			Name:     args[0],
			CourseID: courseID,
		})
		if err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		return printYAML(group)
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete [GROUP_ID]",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		return sdk.Academy().DeleteGroup(cmd.Context(), id)
	},
}

func init() {
	rootCmd.AddCommand(academyCmd)
	academyCmd.AddCommand(courseCmd)
	academyCmd.AddCommand(studentCmd)
	academyCmd.AddCommand(groupCmd)

	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseCreateCmd)
	courseCmd.AddCommand(courseDeleteCmd)

	studentCmd.AddCommand(studentListCmd)
	studentCmd.AddCommand(studentCreateCmd)
	studentCmd.AddCommand(studentDeleteCmd)

	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupDeleteCmd)

	courseCreateCmd.Flags().String("description", "", "Course description")
	courseCreateCmd.Flags().Int("hours", 0, "Course length in hours")

	studentListCmd.Flags().Int64("group", 0, "Filter by group ID")
	studentCreateCmd.Flags().String("first-name", "", "First name (required)")
	studentCreateCmd.Flags().String("last-name", "", "Last name (required)")
	studentCreateCmd.Flags().String("email", "", "Email")
	studentCreateCmd.Flags().Int64("group", 0, "Group to enroll into")

	groupCreateCmd.Flags().Int64("course", 0, "Course the group belongs to (required)")
}
