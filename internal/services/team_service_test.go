package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/security"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
)

const testJWTSecret = "test_secret_key_minimum_32_chars"

func newTeamService(env *testEnv) *TeamService {
	return NewTeamService(env.teamRepo, &security.BcryptVerifier{Cost: 4}, testJWTSecret)
}

func validRegistration(name string, enrollNos ...string) RegisterTeamInput {
	input := RegisterTeamInput{TeamName: name, TeamPassword: "energon"}
	for _, e := range enrollNos {
		input.Users = append(input.Users, MemberInput{EnrollNo: e, Name: "Member " + e})
	}
	return input
}

func TestTeamService_Register(t *testing.T) {
	env := newTestEnv(t)
	svc := newTeamService(env)
	ctx := context.Background()

	team, err := svc.Register(ctx, validRegistration("Autobots", "E1", "E2", "E3"))
	require.NoError(t, err)
	assert.Equal(t, "Autobots", team.Name)
	assert.Len(t, team.Users, 3)
	assert.NotEqual(t, "energon", team.PasswordHash)

	t.Run("Name taken", func(t *testing.T) {
		_, err := svc.Register(ctx, validRegistration("Autobots", "E4", "E5", "E6"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeConflict))
		assert.Equal(t, "Team name already exists", errors.PublicMessage(err))
	})

	t.Run("Member in another team", func(t *testing.T) {
		_, err := svc.Register(ctx, validRegistration("Dinobots", "E7", "E8", "E1"))
		require.Error(t, err)
		assert.Equal(t, "User in another team", errors.PublicMessage(err))

		exists, err := env.teamRepo.TeamNameExists(ctx, "Dinobots")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestTeamService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterTeamInput
	}{
		{name: "Too few members", input: validRegistration("Small", "E1", "E2")},
		{name: "Too many members", input: validRegistration("Big", "E1", "E2", "E3", "E4", "E5", "E6")},
		{name: "Blank team name", input: validRegistration("   ", "E1", "E2", "E3")},
		{name: "Markup only name", input: validRegistration("<b></b>", "E1", "E2", "E3")},
		{name: "Duplicate enrollment", input: validRegistration("Twins", "E1", "E1", "E3")},
		{name: "Short password", input: RegisterTeamInput{
			TeamName:     "Weak",
			TeamPassword: "abc",
			Users:        validRegistration("", "E1", "E2", "E3").Users,
		}},
		{name: "Blank member name", input: RegisterTeamInput{
			TeamName:     "Nameless",
			TeamPassword: "energon",
			Users:        []MemberInput{{EnrollNo: "E1", Name: " "}, {EnrollNo: "E2", Name: "b"}, {EnrollNo: "E3", Name: "c"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := newTeamService(env).Register(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
		})
	}
}

func TestTeamService_Login(t *testing.T) {
	env := newTestEnv(t)
	svc := newTeamService(env)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration("Autobots", "E1", "E2", "E3"))
	require.NoError(t, err)

	res, err := svc.Login(ctx, "Autobots", "energon")
	require.NoError(t, err)
	assert.Equal(t, "Autobots", res.TeamName)

	claims, err := security.ValidateJWT(res.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "Autobots", claims.TeamName)

	_, err = svc.Login(ctx, "Autobots", "Energon")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnauthorized))

	_, errUnknown := svc.Login(ctx, "Ghosts", "energon")
	require.Error(t, errUnknown)
	assert.Equal(t, errors.PublicMessage(err), errors.PublicMessage(errUnknown))
}

func TestTeamService_SpecialCharactersRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	svc := newTeamService(env)
	ctx := context.Background()

	input := validRegistration("R&D", "E1", "E2", "E3")
	input.Users[0].Name = "Seán O'Brien"
	team, err := svc.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "R&D", team.Name)
	assert.Equal(t, "Seán O'Brien", team.Users[0].Name)

	res, err := svc.Login(ctx, "R&D", "energon")
	require.NoError(t, err)
	assert.Equal(t, "R&D", res.TeamName)

	res, err = svc.Login(ctx, "  R&D ", "energon")
	require.NoError(t, err)
	assert.Equal(t, "R&D", res.TeamName)

	locked, err := env.locks().IsLocked(ctx, "R&D")
	require.NoError(t, err)
	assert.False(t, locked)
}
