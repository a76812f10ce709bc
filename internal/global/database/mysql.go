package database

import (
	"fmt"

	"monitoria-system/config"
	"monitoria-system/internal/global/sentry/tracing"
	"monitoria-system/internal/model"
	"monitoria-system/tools"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// autoMigrateModels 需要自动迁移的模型
var autoMigrateModels = []any{
	&model.User{},
	&model.Department{},
	&model.Professor{},
	&model.Student{},
	&model.Discipline{},
	&model.DisciplineEquivalence{},
	&model.StudentGrade{},
	&model.Project{},
	&model.ProjectDiscipline{},
	&model.EnrollmentPeriod{},
	&model.Edital{},
	&model.SignatureToken{},
	&model.Application{},
	&model.Placement{},
}

// Config 两种方言共用的 gorm 配置
func Config() *gorm.Config {
	c := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
	}
	switch config.Get().Mode {
	case config.ModeDebug:
		c.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		c.Logger = logger.Discard
	}
	return c
}

func Init() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		config.Get().Mysql.Username,
		config.Get().Mysql.Password,
		config.Get().Mysql.Host,
		config.Get().Mysql.Port,
		config.Get().Mysql.DBName,
	)
	db, err := gorm.Open(mysql.Open(dsn), Config())
	tools.PanicOnErr(err)
	if config.Get().Sentry.Dsn != "" {
		tools.PanicOnErr(db.Use(tracing.NewGormPlugin("mysql", config.Get().Sentry.Tracing.SlowThreshold)))
	}
	DB = db

	tools.PanicOnErr(Migrate(DB))
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(autoMigrateModels...)
}
