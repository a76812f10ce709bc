package edital

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/notify"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"

	"gorm.io/gorm"
)

const (
	tokenBytes = 32
	tokenTTL   = 72 * time.Hour // 签名令牌自签发起 72 小时有效
)

type RequestSignatureInput struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

// TokenView 签名页展示的令牌信息
type TokenView struct {
	EditalID    uint             `json:"edital_id"`
	Number      string           `json:"number"`
	Type        model.EditalType `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	ExpiresAt   time.Time        `json:"expires_at"`
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// checkToken 状态与有效期同时检查，过期以时间为准，不依赖是否已被标记
func checkToken(t *model.SignatureToken, now time.Time) error {
	switch {
	case t.Status == model.TokenUsed:
		return response.ErrValidation.WithTips("签名链接已使用")
	case t.Expired(now):
		return response.ErrValidation.WithTips("签名链接已过期")
	}
	return nil
}

func findToken(tx *gorm.DB, token string, lock bool) (*model.SignatureToken, error) {
	if lock {
		tx = lockFor(tx)
	}
	var t model.SignatureToken
	if err := tx.Where("token = ?", token).First(&t).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, response.ErrNotFound.WithTips("签名链接无效")
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &t, nil
}

// RequestSignature 为公告签发新的系主任签名令牌，同一公告之前未使用的令牌全部作废
func (s *Service) RequestSignature(ctx context.Context, a actor.Actor, editalID uint, in RequestSignatureInput) (*model.SignatureToken, error) {
	if err := a.Require(actor.EditalRequestSignature); err != nil {
		return nil, err
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, response.ErrValidation.WithTips("邮箱格式错误").WithOrigin(err)
	}
	value, err := newToken()
	if err != nil {
		return nil, response.ErrInternal.WithOrigin(err)
	}

	var (
		e   *model.Edital
		tok model.SignatureToken
	)
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if e, err = load(tx, editalID, true); err != nil {
			return err
		}
		if e.ChiefSignedAt != nil {
			return response.ErrBadRequest.WithTips("公告已有系主任签名")
		}
		if strings.TrimSpace(e.Title) == "" {
			return response.ErrValidation.WithTips("公告标题为空，不能请求签名")
		}

		if err := tx.Model(&model.SignatureToken{}).
			Where("edital_id = ? AND status = ?", e.ID, model.TokenPending).
			Update("status", model.TokenExpired).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}

		now := s.now().UTC()
		tok = model.SignatureToken{
			EditalID:    e.ID,
			Token:       value,
			Email:       addr.Address,
			Name:        strings.TrimSpace(in.Name),
			ExpiresAt:   now.Add(tokenTTL),
			Status:      model.TokenPending,
			RequestedBy: a.UserID,
		}
		if err := tx.Create(&tok).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("已请求系主任签名", "edital_id", e.ID, "token_id", tok.ID, "email", tok.Email, "expires_at", tok.ExpiresAt, "by", a.UserID)
	s.send(ctx, notify.TemplateSignatureRequest, []string{tok.Email}, map[string]any{
		"edital_id":  e.ID,
		"number":     e.Number,
		"title":      e.Title,
		"name":       tok.Name,
		"link":       s.signingLink(tok.Token),
		"expires_at": tok.ExpiresAt,
	})
	return &tok, nil
}

func (s *Service) signingLink(token string) string {
	return strings.TrimRight(s.publicBaseURL, "/") + "/edital/signature/" + token
}

// ResolveToken 校验令牌并返回签名页所需信息；发现已过期的 PENDING 令牌顺带标记为 EXPIRED
func (s *Service) ResolveToken(ctx context.Context, token string) (*TokenView, error) {
	db := s.db.WithContext(ctx)
	t, err := findToken(db, token, false)
	if err != nil {
		return nil, err
	}
	if err := checkToken(t, s.now().UTC()); err != nil {
		if t.Status == model.TokenPending {
			s.expire(ctx, t)
		}
		return nil, err
	}
	e, err := load(db, t.EditalID, false)
	if err != nil {
		return nil, err
	}
	return &TokenView{
		EditalID:    e.ID,
		Number:      e.Number,
		Type:        e.Type,
		Title:       e.Title,
		Description: e.Description,
		Email:       t.Email,
		Name:        t.Name,
		ExpiresAt:   t.ExpiresAt,
	}, nil
}

func (s *Service) expire(ctx context.Context, t *model.SignatureToken) {
	err := s.db.WithContext(ctx).Model(&model.SignatureToken{}).
		Where("id = ? AND status = ?", t.ID, model.TokenPending).
		Update("status", model.TokenExpired).Error
	if err != nil {
		s.log.Error("标记令牌过期失败", "error", err, "token_id", t.ID)
	}
}

// SignByToken 令牌置为 USED 与公告签名在同一事务内完成，任一失败全部回滚
func (s *Service) SignByToken(ctx context.Context, token, signature, name string) (*model.Edital, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, response.ErrValidation.WithTips("签名不能为空")
	}

	var e *model.Edital
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		t, err := findToken(tx, token, true)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		if err := checkToken(t, now); err != nil {
			return err
		}
		if e, err = load(tx, t.EditalID, true); err != nil {
			return err
		}
		if e.ChiefSignedAt != nil {
			return response.ErrBadRequest.WithTips("公告已有系主任签名")
		}

		res := tx.Model(&model.SignatureToken{}).
			Where("id = ? AND status = ?", t.ID, model.TokenPending).
			Updates(map[string]any{"status": model.TokenUsed, "used_at": now})
		if res.Error != nil {
			return response.ErrDatabase.WithOrigin(res.Error)
		}
		if res.RowsAffected == 0 {
			return response.ErrValidation.WithTips("签名链接已失效")
		}

		chiefName := strings.TrimSpace(name)
		if chiefName == "" {
			chiefName = t.Name
		}
		res = tx.Model(&model.Edital{}).
			Where("id = ? AND chief_signed_at IS NULL", e.ID).
			Updates(map[string]any{
				"chief_signature": signature,
				"chief_signed_at": now,
				"chief_name":      chiefName,
				"chief_email":     t.Email,
			})
		if res.Error != nil {
			return response.ErrDatabase.WithOrigin(res.Error)
		}
		if res.RowsAffected == 0 {
			return response.ErrBadRequest.WithTips("公告已有系主任签名")
		}
		e.ChiefSignature, e.ChiefSignedAt, e.ChiefName, e.ChiefEmail = signature, &now, chiefName, t.Email
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("系主任已签名", "edital_id", e.ID, "chief_email", e.ChiefEmail)

	if objectName, err := s.renderSigned(ctx, e); err != nil {
		s.log.Error("生成签名公告 PDF 失败", "error", err, "edital_id", e.ID)
	} else if err := s.db.WithContext(ctx).Model(&model.Edital{}).Where("id = ?", e.ID).
		Update("chief_signed_file", objectName).Error; err != nil {
		s.log.Error("保存签名公告引用失败", "error", err, "edital_id", e.ID)
	} else {
		e.ChiefSignedFile = objectName
	}

	s.send(ctx, notify.TemplateEditalSigned, s.userEmail(ctx, e.CreatedBy), map[string]any{
		"edital_id":  e.ID,
		"number":     e.Number,
		"chief_name": e.ChiefName,
		"signed_at":  e.ChiefSignedAt,
	})
	return e, nil
}
