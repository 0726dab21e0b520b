package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Levi-LMN/Trivia/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUnknownPhone    = errors.New("no participant with that phone number")
	ErrParticipantGone = errors.New("participant no longer exists")
)

type AuthService struct {
	db            *gorm.DB
	jwtSecret     []byte
	adminPassHash []byte
}

// NewAuthService hashes the configured admin passphrase once at startup;
// there is no mutable process-wide settings store.
func NewAuthService(db *gorm.DB, jwtSecret, adminPassphrase string) *AuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassphrase), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret), adminPassHash: hash}
}

// NormalizePhone reduces any Kenyan phone format to the canonical 10-digit
// 07XXXXXXXX / 01XXXXXXXX form used as the unique participant key.
func NormalizePhone(raw string) string {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(phone, "+254"):
		phone = "0" + phone[4:]
	case strings.HasPrefix(phone, "254") && len(phone) >= 12:
		phone = "0" + phone[3:]
	}
	return phone
}

// Identify looks up a participant by phone number and returns a bearer token.
// An unknown number is ErrUnknownPhone so the caller can route to
// registration instead of reporting a failure.
func (s *AuthService) Identify(rawPhone string) (*models.Participant, string, error) {
	phone := NormalizePhone(rawPhone)
	if phone == "" {
		return nil, "", errors.New("phone number is required")
	}

	var p models.Participant
	if err := s.db.Where("phone = ?", phone).First(&p).Error; err != nil {
		return nil, "", ErrUnknownPhone
	}

	token, err := s.generateParticipantToken(p.ID)
	if err != nil {
		return nil, "", err
	}
	return &p, token, nil
}

// Register creates a participant for a new phone number. The insert is
// idempotent: a concurrent registration of the same number resolves to the
// one existing row.
func (s *AuthService) Register(rawPhone, name string) (*models.Participant, string, error) {
	phone := NormalizePhone(rawPhone)
	name = strings.TrimSpace(name)
	if phone == "" || name == "" {
		return nil, "", errors.New("phone number and name are required")
	}

	p := models.Participant{Phone: phone, Name: name, CreatedAt: NowEAT()}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
		return nil, "", err
	}
	// Re-read in case the insert lost a race and another row already holds
	// this number.
	if err := s.db.Where("phone = ?", phone).First(&p).Error; err != nil {
		return nil, "", err
	}

	token, err := s.generateParticipantToken(p.ID)
	if err != nil {
		return nil, "", err
	}
	return &p, token, nil
}

// AdminLogin compares the shared passphrase and returns an admin token.
func (s *AuthService) AdminLogin(passphrase string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.adminPassHash, []byte(passphrase)); err != nil {
		return "", errors.New("wrong passphrase")
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) generateParticipantToken(participantID uint) (string, error) {
	claims := jwt.MapClaims{
		"participant_id": participantID,
		"exp":            time.Now().Add(24 * time.Hour).Unix(),
		"iat":            time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateParticipantToken returns the participant ID carried by a token,
// after confirming the participant still exists. A row that has vanished
// (store reset) is ErrParticipantGone: the caller must drop all participant
// state and restart from identification.
func (s *AuthService) ValidateParticipantToken(tokenString string) (uint, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, err
	}

	idFloat, ok := claims["participant_id"].(float64)
	if !ok {
		return 0, errors.New("invalid participant_id in token")
	}
	id := uint(idFloat)

	var p models.Participant
	if err := s.db.Select("id").First(&p, id).Error; err != nil {
		return 0, ErrParticipantGone
	}
	return id, nil
}

func (s *AuthService) ValidateAdminToken(tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return errors.New("not an admin token")
	}
	return nil
}

func (s *AuthService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
