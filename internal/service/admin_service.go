package service

import (
	"context"
	"strconv"
	"strings"

	"coachpack/internal/domain"
	"coachpack/internal/repository"
)

// usersCSVHeader is the fixed export header. Rows are comma-joined in
// this column order; this is the wire format consumed by the existing
// admin tooling, so it is built by hand rather than with a quoting CSV
// writer.
const usersCSVHeader = "Name,Email,Plan Type,Signup Date,Verified,Created At"

// AdminService provides the administrative views over the user table.
type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ExportUsersCSV(ctx context.Context) ([]byte, error)
}

type adminService struct {
	userRepo repository.UserRepository
}

// NewAdminService creates a new instance of adminService.
func NewAdminService(userRepo repository.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

func (s *adminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// ExportUsersCSV renders the user table as CSV, one row per user.
func (s *adminService) ExportUsersCSV(ctx context.Context) ([]byte, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(usersCSVHeader)
	b.WriteByte('\n')
	for _, u := range users {
		row := []string{
			u.Name,
			u.Email,
			string(u.Plan),
			domain.FormatDate(u.SignupDate),
			strconv.FormatBool(u.Verified),
			u.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}
