package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/roboco-io/gltfimport/internal/importer"
	"github.com/roboco-io/gltfimport/internal/metrics"
	"github.com/roboco-io/gltfimport/internal/parser"
	"github.com/roboco-io/gltfimport/internal/texture"
	"github.com/spf13/cobra"
)

var (
	importExtractImages bool
	importImagesDir     string
	importMaxSize       int
	importGuessFormat   bool
	importJSON          bool
	importMetricsFile   string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "glTF/GLB 리소스 불러오기",
	Long: `glTF/GLB 문서의 모든 버퍼와 이미지를 불러오고 요약을 출력합니다.

상대 경로는 문서가 있는 디렉토리를 기준으로 해석합니다.
--extract-images를 지정하면 디코딩된 이미지를 PNG로 저장합니다.

환경 변수:
  GLTFIMPORT_GUESS_MIME=true   이미지 형식을 내용으로 추측
  GLTFIMPORT_LOG_LEVEL=debug   로그 수준

예시:
  gltfimport import scene.gltf
  gltfimport import scene.glb --json
  gltfimport import scene.glb --extract-images --images-dir ./textures --max-size 1024`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	registerImportFlags(importCmd)
	registerImportFlags(rootCmd)
	rootCmd.AddCommand(importCmd)
}

// registerImportFlags is shared with the root command, which imports its
// argument directly.
func registerImportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&importExtractImages, "extract-images", false, "이미지를 PNG로 저장")
	cmd.Flags().StringVar(&importImagesDir, "images-dir", "", "추출된 이미지 저장 디렉토리 (기본: 설정의 output.images_dir)")
	cmd.Flags().IntVar(&importMaxSize, "max-size", -1, "저장할 이미지의 최대 가로/세로 (0: 원본 크기)")
	cmd.Flags().BoolVar(&importGuessFormat, "guess-format", false, "이미지 형식을 내용으로 추측")
	cmd.Flags().BoolVar(&importJSON, "json", false, "요약을 JSON으로 출력")
	cmd.Flags().StringVar(&importMetricsFile, "metrics-file", "", "Prometheus textfile 출력 경로")
}

type bufferSummary struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"`
	Source   string `json:"source"`
	Declared int    `json:"declared"`
	Bytes    int    `json:"bytes"`
}

type imageSummary struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Path   string `json:"path,omitempty"`
}

type importSummary struct {
	File    string          `json:"file"`
	Format  string          `json:"format"`
	Buffers []bufferSummary `json:"buffers"`
	Images  []imageSummary  `json:"images"`
}

func runImport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("파일을 찾을 수 없습니다: %s", inputPath)
	}

	format, err := detectFormat(inputPath)
	if err != nil {
		return err
	}

	metricsFile := importMetricsFile
	if metricsFile == "" {
		metricsFile = appConfig.Metrics.Textfile
	}
	if metricsFile != "" {
		defer func() {
			if err := metrics.WriteTextfile(metricsFile); err != nil {
				logger.Warn("failed to write metrics", "path", metricsFile, "error", err)
			}
		}()
	}

	opts := importer.DefaultOptions()
	opts.Logger = logger
	if importGuessFormat || appConfig.Import.GuessMimeType {
		opts.Sniffer = texture.MagicSniffer{}
	}

	logger.Info("importing", "file", inputPath, "format", format.String())
	res, err := importer.New(opts).Import(cmd.Context(), inputPath)
	if err != nil {
		return fmt.Errorf("임포트 실패 (%s): %w", importer.Kind(err), err)
	}

	summary := summarize(inputPath, format, res)

	if importExtractImages {
		if err := extractImages(cmd, res, summary); err != nil {
			return err
		}
	}

	if importJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("출력 포맷팅 실패: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printSummary(cmd, summary)
	return nil
}

// detectFormat checks the extension first and falls back to the file
// content for unknown extensions.
func detectFormat(path string) (parser.Format, error) {
	if format := parser.DetectFormat(path); format != parser.FormatUnknown {
		return format, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return parser.FormatUnknown, fmt.Errorf("파일 열기 실패: %w", err)
	}
	defer f.Close()

	format, err := parser.DetectFormatFromReader(f)
	if err != nil || format == parser.FormatUnknown {
		return parser.FormatUnknown, fmt.Errorf("지원하지 않는 파일 형식입니다: %s", filepath.Ext(path))
	}
	return format, nil
}

func summarize(path string, format parser.Format, res *importer.Result) *importSummary {
	s := &importSummary{
		File:    path,
		Format:  format.String(),
		Buffers: make([]bufferSummary, 0, len(res.Buffers)),
		Images:  make([]imageSummary, 0, len(res.Images)),
	}

	for i, decl := range res.Document.BufferDecls() {
		source := "bin"
		if !decl.Source.Bin {
			if scheme, err := importer.ParseScheme(decl.Source.URI); err == nil {
				source = scheme.Kind.String()
			}
		}
		s.Buffers = append(s.Buffers, bufferSummary{
			Index:    decl.Index,
			Name:     decl.Name,
			Source:   source,
			Declared: decl.Length,
			Bytes:    len(res.Buffers[i]),
		})
	}

	for i, decl := range res.Document.ImageDecls() {
		img := res.Images[i]
		s.Images = append(s.Images, imageSummary{
			Index:  decl.Index,
			Name:   decl.Name,
			Width:  img.Width,
			Height: img.Height,
			Format: img.Format.String(),
		})
	}

	return s
}

func printSummary(cmd *cobra.Command, s *importSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "파일: %s (%s)\n\n", s.File, s.Format)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "버퍼: %d\n", len(s.Buffers))
	for _, b := range s.Buffers {
		fmt.Fprintf(w, "  [%d]\t%s\t%s\t%d bytes (선언: %d)\n", b.Index, b.Name, b.Source, b.Bytes, b.Declared)
	}
	fmt.Fprintf(w, "이미지: %d\n", len(s.Images))
	for _, img := range s.Images {
		line := fmt.Sprintf("  [%d]\t%s\t%dx%d\t%s", img.Index, img.Name, img.Width, img.Height, img.Format)
		if img.Path != "" {
			line += "\t→ " + img.Path
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
}

// extractImages writes every decoded image as PNG and records the paths in
// the summary.
func extractImages(cmd *cobra.Command, res *importer.Result, s *importSummary) error {
	dir := importImagesDir
	if dir == "" {
		dir = appConfig.Output.ImagesDir
	}
	maxSize := importMaxSize
	if maxSize < 0 {
		maxSize = appConfig.Output.MaxTextureSize
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("이미지 디렉토리 생성 실패: %w", err)
	}

	for i, img := range res.Images {
		if maxSize > 0 {
			img = img.Scale(maxSize)
		}
		data, err := img.EncodePNG()
		if err != nil {
			return fmt.Errorf("이미지 %d 인코딩 실패: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("image_%03d.png", i))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("이미지 저장 실패: %w", err)
		}
		s.Images[i].Path = path
		logger.Debug("image extracted", "index", i, "path", path, "width", img.Width, "height", img.Height)
	}

	if !importJSON {
		fmt.Fprintf(cmd.ErrOrStderr(), "이미지 %d개 저장: %s\n", len(res.Images), dir)
	}
	return nil
}
