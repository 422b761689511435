// Package cli implements the gltfimport command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roboco-io/gltfimport/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	rootConfigPath string
	rootVerbose    bool
)

// appConfig and logger are set by the persistent pre-run of every command.
var (
	appConfig = config.DefaultConfig()
	logger    = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "gltfimport [file]",
	Short: "glTF/GLB 리소스 임포터",
	Long: `glTF 2.0 문서(.gltf, .glb)의 버퍼와 이미지를 불러옵니다.

data URI, file URI, 상대 경로, GLB 바이너리 청크를 지원합니다.
파일을 인자로 주면 import 명령과 같이 동작합니다.

예시:
  gltfimport scene.glb
  gltfimport import scene.gltf --extract-images
  gltfimport inspect scene.glb`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runImport(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gltfimport %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "설정 파일 경로 (기본: ~/.gltfimport/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "상세 로그 출력")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is passed to the
// importer so an interrupt stops outstanding reads.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup loads the configuration and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return fmt.Errorf("설정 로더 초기화 실패: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}
	cfg.ApplyEnv()

	level, err := cfg.SlogLevel()
	if err != nil {
		return fmt.Errorf("설정 오류: %w", err)
	}
	if rootVerbose {
		level = slog.LevelDebug
	}

	appConfig = cfg
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// newLoader honors the --config flag.
func newLoader() (*config.Loader, error) {
	if rootConfigPath != "" {
		return config.NewLoaderWithPath(rootConfigPath), nil
	}
	return config.NewLoader()
}
