package auth

import (
	"testing"

	"github.com/RuchiketJadhav/sammati-approval/internal/model"
	"github.com/RuchiketJadhav/sammati-approval/internal/repository"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewAuthService(repository.NewUserRepository(db), "test-secret", 3600)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register(&model.RegisterRequest{
		Username: "ramesh",
		Password: "secret123",
		FullName: "Ramesh Patil",
		Role:     model.RoleSuperior,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.RoleSuperior {
		t.Fatalf("role = %s, want %s", user.Role, model.RoleSuperior)
	}
	if user.Password == "secret123" {
		t.Fatal("password stored in plaintext")
	}

	resp, err := svc.Login(&model.LoginRequest{Username: "ramesh", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}

	claims, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != string(model.RoleSuperior) {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(t)

	req := &model.RegisterRequest{Username: "dup", Password: "pw123456"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(req); err == nil {
		t.Fatal("duplicate username accepted")
	}
}

func TestRegisterDefaultsAndInvalidRole(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register(&model.RegisterRequest{Username: "plain", Password: "pw123456"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Fatalf("default role = %s, want %s", user.Role, model.RoleUser)
	}

	if _, err := svc.Register(&model.RegisterRequest{Username: "bad", Password: "pw123456", Role: "WIZARD"}); err == nil {
		t.Fatal("invalid role accepted")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(&model.RegisterRequest{Username: "u1", Password: "rightpw1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(&model.LoginRequest{Username: "u1", Password: "wrongpw1"}); err == nil {
		t.Fatal("wrong password accepted")
	}
	if _, err := svc.Login(&model.LoginRequest{Username: "nobody", Password: "whatever"}); err == nil {
		t.Fatal("unknown user accepted")
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register(&model.RegisterRequest{Username: "off", Password: "pw123456"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	user.Status = 0
	if err := svc.repo.UpdateUser(user); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := svc.Login(&model.LoginRequest{Username: "off", Password: "pw123456"}); err == nil {
		t.Fatal("disabled account logged in")
	}
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	svc := newTestService(t)
	other := newTestService(t)
	// 不同密钥签发的Token必须被拒绝
	other.jwtSecret = []byte("another-secret")

	user, err := svc.Register(&model.RegisterRequest{Username: "tok", Password: "pw123456"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := other.GenerateToken(user)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("token signed with wrong key accepted")
	}
}
