package services

import (
	"context"
	"strings"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/security"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

type MemberInput struct {
	EnrollNo string `json:"EnrollNo" validate:"notblank,max=50"`
	Name     string `json:"name" validate:"notblank,max=255"`
}

type RegisterTeamInput struct {
	TeamName     string        `json:"team_name" validate:"notblank,max=100"`
	TeamPassword string        `json:"team_password" validate:"required,min=4,max=72"`
	Users        []MemberInput `json:"users" validate:"required,min=3,max=5,dive"`
}

type LoginResult struct {
	TeamName string `json:"team_name"`
	Token    string `json:"token"`
}

const msgInvalidCredentials = "Invalid team name or password"

type TeamService struct {
	teamRepo  *repositories.TeamRepository
	verifier  security.CredentialVerifier
	validate  *requestValidator
	jwtSecret string
}

func NewTeamService(teamRepo *repositories.TeamRepository, verifier security.CredentialVerifier, jwtSecret string) *TeamService {
	return &TeamService{
		teamRepo:  teamRepo,
		verifier:  verifier,
		validate:  newRequestValidator(),
		jwtSecret: jwtSecret,
	}
}

// Register creates a team and its members in one step
func (s *TeamService) Register(ctx context.Context, input RegisterTeamInput) (*models.Team, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	name := security.SanitizeText(input.TeamName)
	if name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "team_name is required")
	}

	users := make([]models.User, 0, len(input.Users))
	enrollNos := make([]string, 0, len(input.Users))
	seen := make(map[string]bool, len(input.Users))
	for _, u := range input.Users {
		enrollNo := strings.TrimSpace(u.EnrollNo)
		if seen[enrollNo] {
			return nil, errors.New(errors.ErrCodeValidation, "Duplicate enrollment number "+enrollNo)
		}
		seen[enrollNo] = true
		enrollNos = append(enrollNos, enrollNo)
		users = append(users, models.User{EnrollNo: enrollNo, Name: security.SanitizeText(u.Name)})
	}

	exists, err := s.teamRepo.TeamNameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New(errors.ErrCodeConflict, "Team name already exists")
	}

	taken, err := s.teamRepo.RegisteredEnrollNos(ctx, enrollNos)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, errors.New(errors.ErrCodeConflict, "User in another team")
	}

	hash, err := s.verifier.Hash(input.TeamPassword)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	team := &models.Team{
		Name:         name,
		PasswordHash: hash,
		Users:        users,
	}
	if err := s.teamRepo.CreateTeamWithUsers(ctx, team); err != nil {
		return nil, err
	}

	logger.Info("Team registered", "team", team.Name, "members", len(team.Users))
	return team, nil
}

// Login checks team credentials and issues a session token
func (s *TeamService) Login(ctx context.Context, teamName, password string) (*LoginResult, error) {
	team, err := s.teamRepo.GetTeamByName(ctx, security.SanitizeText(teamName))
	if errors.Is(err, errors.ErrCodeNotFound) {
		return nil, errors.New(errors.ErrCodeUnauthorized, msgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if !s.verifier.Verify(team.PasswordHash, password) {
		return nil, errors.New(errors.ErrCodeUnauthorized, msgInvalidCredentials)
	}

	token, err := security.GenerateTeamToken(team.Name, s.jwtSecret)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token")
	}

	return &LoginResult{TeamName: team.Name, Token: token}, nil
}
