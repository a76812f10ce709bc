package tracing

import (
	"time"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	gormSpanKey    = "sentry:span"
	gormStartKey   = "sentry:start"
	callbackPrefix = "sentry_tracing"
)

// GormPlugin 实现 GORM Plugin 接口，每条 SQL 一个子 span
// span 描述只记录表名，不记录 SQL 与参数
type GormPlugin struct {
	// system 写入 db.system，例如 mysql
	system string
	// slowThreshold 慢查询阈值，为 0 时记录所有查询
	slowThreshold time.Duration
}

// NewGormPlugin 创建 GORM Sentry 追踪插件
func NewGormPlugin(system string, slowThreshold time.Duration) *GormPlugin {
	return &GormPlugin{system: system, slowThreshold: slowThreshold}
}

// Name 返回插件名称
func (p *GormPlugin) Name() string {
	return "SentryTracingPlugin"
}

// Initialize 注册前后回调，任一注册失败都会返回错误
func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	// 操作开始前创建 span
	if err := cb.Create().Before("gorm:create").Register(callbackPrefix+":before_create", p.before("db.sql.create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register(callbackPrefix+":before_query", p.before("db.sql.query")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register(callbackPrefix+":before_update", p.before("db.sql.update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register(callbackPrefix+":before_delete", p.before("db.sql.delete")); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register(callbackPrefix+":before_row", p.before("db.sql.row")); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register(callbackPrefix+":before_raw", p.before("db.sql.raw")); err != nil {
		return err
	}

	// 操作完成后结束 span
	if err := cb.Create().After("gorm:create").Register(callbackPrefix+":after_create", p.after); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register(callbackPrefix+":after_query", p.after); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register(callbackPrefix+":after_update", p.after); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register(callbackPrefix+":after_delete", p.after); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register(callbackPrefix+":after_row", p.after); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register(callbackPrefix+":after_raw", p.after)
}

// before 在数据库操作前从请求上下文取父 span 并创建子 span
// 没有父 span（后台任务、启动迁移）时不追踪
func (p *GormPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		parent := sentry.SpanFromContext(db.Statement.Context)
		if parent == nil {
			return
		}
		span := parent.StartChild(operation)
		span.Description = db.Statement.Table
		if span.Description == "" {
			span.Description = "unknown"
		}
		span.SetData("db.system", p.system)

		db.InstanceSet(gormStartKey, time.Now())
		db.InstanceSet(gormSpanKey, span)
	}
}

// after 取回 before 中保存的 span，记录影响行数后结束
func (p *GormPlugin) after(db *gorm.DB) {
	if db.Statement == nil {
		return
	}
	startVal, ok := db.InstanceGet(gormStartKey)
	if !ok {
		return
	}
	spanVal, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	start, _ := startVal.(time.Time)
	span, _ := spanVal.(*sentry.Span)
	if span == nil {
		return
	}
	span.SetData("db.rows_affected", db.RowsAffected)
	finish(span, time.Since(start), p.slowThreshold, db.Error)
}
