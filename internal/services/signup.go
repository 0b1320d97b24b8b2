package services

import (
	"context"
	"strings"

	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/pkg/logger"
)

// Department is the only department the portal registers users for.
const Department = "Computer Science"

// SignupService registers new students and supervisors.
type SignupService struct {
	api  *apiclient.Client
	gate *gate.Gate
}

func NewSignupService(api *apiclient.Client, g *gate.Gate) *SignupService {
	return &SignupService{api: api, gate: g}
}

type StudentSignupRequest struct {
	FullName   string `json:"full_name" validate:"required,min=3"`
	MatricNo   string `json:"matric_no" validate:"required,matric"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required,eq=Computer Science"`
	Password   string `json:"password" validate:"required,min=8,haslower"`
}

type SupervisorSignupRequest struct {
	FullName   string `json:"full_name" validate:"required,min=3"`
	StaffID    string `json:"staff_id" validate:"required,min=4,alphanum"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required,eq=Computer Science"`
	Password   string `json:"password" validate:"required,min=8,haslower"`
}

func (s *SignupService) Student(ctx context.Context, req *StudentSignupRequest) error {
	if req.Department == "" {
		req.Department = Department
	}
	return s.gate.Guard(gate.OpSignup, func() error {
		if err := validateStruct(req, nil); err != nil {
			return err
		}
		return s.register(ctx, apiclient.SignupRequest{
			FullName:   strings.TrimSpace(req.FullName),
			Email:      req.Email,
			Role:       models.RoleStudent,
			Department: req.Department,
			MatricNo:   req.MatricNo,
			Password:   req.Password,
		})
	})
}

func (s *SignupService) Supervisor(ctx context.Context, req *SupervisorSignupRequest) error {
	if req.Department == "" {
		req.Department = Department
	}
	return s.gate.Guard(gate.OpSignup, func() error {
		if err := validateStruct(req, nil); err != nil {
			return err
		}
		return s.register(ctx, apiclient.SignupRequest{
			FullName:   strings.TrimSpace(req.FullName),
			Email:      req.Email,
			Role:       models.RoleSupervisor,
			Department: req.Department,
			StaffID:    req.StaffID,
			Password:   req.Password,
		})
	})
}

func (s *SignupService) register(ctx context.Context, req apiclient.SignupRequest) error {
	if err := s.api.Signup(ctx, req); err != nil {
		return err
	}
	logger.Info().Str("role", string(req.Role)).Msg("account registered")
	return nil
}
