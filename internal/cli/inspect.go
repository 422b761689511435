package cli

import (
	"fmt"
	"os"

	"github.com/roboco-io/gltfimport/internal/parser"
	"github.com/spf13/cobra"
)

var inspectOutput string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "glTF 문서 JSON 출력",
	Long: `glTF/GLB 파일의 JSON 문서를 검증한 뒤 들여쓰기하여 출력합니다.

리소스는 불러오지 않습니다. GLB의 경우 JSON 청크만 출력하며,
바이너리 청크의 크기는 표준 오류로 표시합니다.

예시:
  gltfimport inspect scene.glb
  gltfimport inspect scene.gltf -o pretty.gltf`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	f, err := os.Open(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("파일을 찾을 수 없습니다: %s", inputPath)
		}
		return fmt.Errorf("파일 열기 실패: %w", err)
	}
	defer f.Close()

	g, err := parser.FromReader(f)
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}

	data, err := g.Document.MarshalIndent()
	if err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}

	if g.Blob != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: BIN 청크 %d bytes\n", g.Format, len(g.Blob))
	}

	if inspectOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := os.WriteFile(inspectOutput, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "저장 완료: %s\n", inspectOutput)
	return nil
}
