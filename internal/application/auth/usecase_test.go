package auth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/almoxarifado-api/internal/application/auth"
	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
)

const testCompanyID = "co-1"

var testJWTCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "almoxarifado-test"}

type fakeUserRepo struct {
	users     map[string]*entity.User
	lookupErr error // inyecta un fallo de infraestructura en las búsquedas
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(user *entity.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Email == email && u.CompanyID == companyID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(user *entity.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.users {
		if u.CompanyID == companyID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func TestRegisterUser_RolPorDefecto(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@obra.com", Password: "secreta123", CompanyID: testCompanyID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleFuncionario, out.Role, "sin rol explícito se registra como funcionario")
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@obra.com", Password: "secreta123", CompanyID: testCompanyID})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@obra.com", Password: "otraclave", CompanyID: testCompanyID})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_FalloDeRepoSePropaga(t *testing.T) {
	repo := newFakeUserRepo()
	repo.lookupErr = errors.New("conexión perdida")
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	// un fallo al chequear el email no puede leerse como "no hay duplicado"
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@obra.com", Password: "secreta123", CompanyID: testCompanyID})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Empty(t, repo.users, "no se insertó nada")
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@obra.com", Password: "secreta123", CompanyID: testCompanyID})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@obra.com", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmiteToken(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@obra.com", Password: "secreta123", CompanyID: testCompanyID, Role: entity.RoleAlmacenista,
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "ana@obra.com", Password: "secreta123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleAlmacenista, out.User.Role)
}
