package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/solarops/solar-console/domain"
)

// AcademyService wraps the training resources: courses, students and groups.
type AcademyService struct {
	c *Client
}

// Courses returns all courses.
func (s *AcademyService) Courses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := s.c.do(ctx, http.MethodGet, "/api/courses", nil, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// CreateCourse registers a new course.
func (s *AcademyService) CreateCourse(ctx context.Context, course domain.Course) (*domain.Course, error) {
	var created domain.Course
	if err := s.c.do(ctx, http.MethodPost, "/api/courses", nil, course, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteCourse removes a course.
func (s *AcademyService) DeleteCourse(ctx context.Context, id int64) error {
	return s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/courses/%d", id), nil, nil, nil)
}

// Students returns students, optionally restricted to one group.
func (s *AcademyService) Students(ctx context.Context, groupID int64) ([]domain.Student, error) {
	query := url.Values{}
	if groupID > 0 {
		query.Set("group_id", strconv.FormatInt(groupID, 10))
	}
	var students []domain.Student
	if err := s.c.do(ctx, http.MethodGet, "/api/students", query, nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// CreateStudent enrolls a new student.
func (s *AcademyService) CreateStudent(ctx context.Context, student domain.Student) (*domain.Student, error) {
	var created domain.Student
	if err := s.c.do(ctx, http.MethodPost, "/api/students", nil, student, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteStudent removes a student.
func (s *AcademyService) DeleteStudent(ctx context.Context, id int64) error {
	return s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/students/%d", id), nil, nil, nil)
}

// Groups returns all groups.
func (s *AcademyService) Groups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	if err := s.c.do(ctx, http.MethodGet, "/api/groups", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateGroup registers a new group for a course.
func (s *AcademyService) CreateGroup(ctx context.Context, group domain.Group) (*domain.Group, error) {
	var created domain.Group
	if err := s.c.do(ctx, http.MethodPost, "/api/groups", nil, group, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteGroup removes a group.
func (s *AcademyService) DeleteGroup(ctx context.Context, id int64) error {
	return s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/groups/%d", id), nil, nil, nil)
}
