package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"strings"
	"syscall"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/command"
	"imagen-gateway/internal/log"
	"imagen-gateway/utils/path"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	_ "imagen-gateway/cmd/docs"
)

var (
	rootPath = path.RootPath()
	Version  string
	envPath  string
	yamlPath string
	conf     *config.Configuration
	logger   *zap.Logger
)

// bindFlags 掛在 root 的 persistent flags，子命令也能指定設定檔
func bindFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&envPath, "env", "e", "", "Environment file, e.g. --env .env")
	flags.StringVarP(&yamlPath, "config", "c", "", "YAML config file, e.g. --config config.yaml")
}

func init() {
	cobra.OnInitialize(func() {
		if envPath != "" && yamlPath != "" {
			fmt.Println("同時指定 --env 與 --config，將以 --env 優先")
		}
		initConfig()
	})
}

// @title        imagen-gateway API
// @version      1.0
// @description  Vertex AI Imagen 圖片生成代理
// @host         localhost:3000
// @basePath     /
// @securityDefinitions.apikey CookieAuth
// @in   cookie
// @name session_token

// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
// @description 請在欄位輸入 "Bearer {token}"
func main() {
	rootCmd := &cobra.Command{
		Use:   "app",
		Short: "Vertex AI Imagen gateway",
		Run: func(cmd *cobra.Command, args []string) {
			if conf == nil {
				panic("config is nil! Check config/initConfig logic.")
			}
			defer logger.Sync()
			app, cleanup, err := wireApp(conf, logger)
			if err != nil {
				panic(err)
			}
			defer cleanup()

			logger.Info("start app ...")
			if err := app.Run(); err != nil {
				panic(err)
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info("shutdown app ...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := app.Stop(ctx); err != nil {
				panic(err)
			}
		},
	}

	bindFlags(rootCmd.PersistentFlags())

	command.Register(rootCmd, func() (*command.Command, func(), error) {
		return wireCommand(conf, logger)
	})

	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}

func initConfig() {
	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	useFile := false

	if envPath != "" {
		useFile = true
		if !filepath.IsAbs(envPath) {
			envPath = filepath.Join(rootPath, envPath)
		}
		fmt.Println("load .env config:", envPath)
		v.SetConfigFile(envPath)
		v.SetConfigType("env")
	} else if yamlPath != "" {
		useFile = true
		if !filepath.IsAbs(yamlPath) {
			yamlPath = filepath.Join(rootPath, "conf", yamlPath)
		}
		fmt.Println("load yaml config:", yamlPath)
		v.SetConfigFile(yamlPath)
		v.SetConfigType("yaml")
	} else {
		fmt.Println("No configuration file specified, using environment variables only.")
	}

	if useFile {
		if ok, _ := path.Exists(v.ConfigFileUsed()); !ok {
			panic(fmt.Errorf("config file not found: %s", v.ConfigFileUsed()))
		}
	}

	var err error
	conf, err = loadConfig(v, useFile)
	if err != nil {
		panic(err)
	}

	logger, err = log.NewLogger(conf)
	if err != nil {
		panic(fmt.Errorf("init logger failed: %w", err))
	}

	if useFile {
		// 執行中的 conf 已注入各元件，不在原地改寫；變更只做驗證，重啟後生效（僅供開發使用）
		v.OnConfigChange(func(in fsnotify.Event) {
			next, err := reloadConfig(v)
			if err != nil {
				logger.Warn("config reload failed", zap.String("file", in.Name), zap.Error(err))
				return
			}
			logger.Info("config file changed, restart to apply",
				zap.String("file", in.Name),
				zap.String("env", next.App.Env),
				zap.String("log_level", next.Log.Level),
			)
		})
		v.WatchConfig()
	}
}

// loadConfig 讀取設定檔（若有）、綁定環境變數後解出完整設定
func loadConfig(v *viper.Viper, useFile bool) (*config.Configuration, error) {
	if useFile {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}
	bindEnvs(v, reflect.TypeOf(config.Configuration{}))
	applyEnvAliases(v, reflect.TypeOf(config.Configuration{}))
	v.SetDefault("TRANSLATE__ENABLED", true)
	return decodeConfig(v)
}

// reloadConfig 設定檔變更後重新解出一份新的設定
func reloadConfig(v *viper.Viper) (*config.Configuration, error) {
	applyEnvAliases(v, reflect.TypeOf(config.Configuration{}))
	return decodeConfig(v)
}

func decodeConfig(v *viper.Viper) (*config.Configuration, error) {
	c := &config.Configuration{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	c.ApplyDefaults()
	if c.App.Version == "" {
		c.App.Version = Version
	}
	return c, nil
}

// bindEnvs 綁定 SECTION__KEY；欄位帶 env tag 時同時接受該名稱（例如 GOOGLE_PROJECT_ID）
func bindEnvs(v *viper.Viper, t reflect.Type, path ...string) {
	// 若遇到指標，取其 Elem
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			tag = field.Name
		}
		newPath := append(append([]string{}, path...), tag)
		if field.Type.Kind() == reflect.Struct || (field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct) {
			bindEnvs(v, field.Type, newPath...)
			continue
		}
		key := strings.Join(newPath, "__")
		if alias := field.Tag.Get("env"); alias != "" {
			_ = v.BindEnv(key, key, alias)
		} else {
			_ = v.BindEnv(key)
		}
	}
}

// applyEnvAliases 設定檔內的 env tag 名稱（例如 GOOGLE_PROJECT_ID）作為 SECTION__KEY 的預設值
// 環境變數與設定檔中的 SECTION__KEY 仍優先
func applyEnvAliases(v *viper.Viper, t reflect.Type, path ...string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			tag = field.Name
		}
		newPath := append(append([]string{}, path...), tag)
		if field.Type.Kind() == reflect.Struct || (field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct) {
			applyEnvAliases(v, field.Type, newPath...)
			continue
		}
		alias := strings.ToLower(field.Tag.Get("env"))
		if alias != "" && v.InConfig(alias) {
			v.SetDefault(strings.Join(newPath, "__"), v.Get(alias))
		}
	}
}
