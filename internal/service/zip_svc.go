package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/repository"
	"threed_viewer_v1_202601/pkg/archive"
)

var ErrNoZipFiles = errors.New("Please upload at least one ZIP file.")

// ZipService 独立于 CSV 的压缩包上传
// 压缩包原样落到公开目录，之后 CSV 的 path 列按原始文件名引用它；
// 所以这条路径只验条目不解压，也绝不覆盖同名文件
type ZipService struct {
	store   AssetStore
	logRepo repository.UploadLogRepository
}

func NewZipService(store AssetStore, logRepo repository.UploadLogRepository) *ZipService {
	return &ZipService{store: store, logRepo: logRepo}
}

// UploadFile 一个待处理的上传文件
type UploadFile struct {
	Name string
	Data []byte
}

// FileResult 单文件处理结果，和前端约定的字段保持一致
type FileResult struct {
	FileName string `json:"fileName"`
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	FilePath string `json:"filePath,omitempty"`
}

// UploadResult 整批结果；Success 是所有单文件结果的逻辑与
type UploadResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Results []FileResult `json:"results"`
}

// Upload 逐个处理上传的压缩包，支持部分成功
func (s *ZipService) Upload(ctx context.Context, shop string, files []UploadFile) (*UploadResult, error) {
	nonEmpty := false
	for _, f := range files {
		if len(f.Data) > 0 {
			nonEmpty = true
			break
		}
	}
	if len(files) == 0 || !nonEmpty {
		return nil, ErrNoZipFiles
	}

	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		results = append(results, s.processFile(ctx, shop, f))
	}

	allOK := true
	for _, r := range results {
		if !r.Success {
			allOK = false
			break
		}
	}

	plural := ""
	if len(results) > 1 {
		plural = "s"
	}
	message := fmt.Sprintf("Successfully uploaded %d ZIP file%s.", len(results), plural)
	if !allOK {
		message = fmt.Sprintf("Processed %d ZIP file%s. Some files had errors.", len(results), plural)
	}

	return &UploadResult{Success: allOK, Message: message, Results: results}, nil
}

func (s *ZipService) processFile(ctx context.Context, shop string, f UploadFile) FileResult {
	result := s.checkAndSave(ctx, f)

	// 审计日志尽力写，失败不影响上传结果
	entries, _ := archive.ListEntries(f.Data)
	logEntry := &model.UploadLog{
		Shop:     shop,
		FileName: f.Name,
		Size:     int64(len(f.Data)),
		Entries:  entries,
		Success:  result.Success,
		Error:    result.Error,
	}
	if err := s.logRepo.Create(ctx, logEntry); err != nil {
		log.Printf("写上传日志失败 %s: %v", f.Name, err)
	}
	return result
}

func (s *ZipService) checkAndSave(ctx context.Context, f UploadFile) FileResult {
	if !strings.HasSuffix(strings.ToLower(f.Name), ".zip") {
		return FileResult{FileName: f.Name, Error: "Please upload a .zip file."}
	}

	// 只列目录，不解压
	entries, err := archive.ListEntries(f.Data)
	if err != nil {
		log.Printf("读取压缩包失败 %s: %v", f.Name, err)
		return FileResult{FileName: f.Name, Error: "Failed to process the ZIP file."}
	}
	if !archive.HasModelEntry(entries) {
		return FileResult{FileName: f.Name, Error: "The ZIP file does not contain any .gltf or .glb files."}
	}

	// 同名文件拒绝覆盖
	exists, err := s.store.Exists(ctx, f.Name)
	if err != nil {
		log.Printf("检查文件占用失败 %s: %v", f.Name, err)
		return FileResult{FileName: f.Name, Error: "Failed to process the ZIP file."}
	}
	if exists {
		return FileResult{
			FileName: f.Name,
			Error:    fmt.Sprintf("A file with the name %s already exists. Please rename the file and try again.", f.Name),
		}
	}

	publicPath, err := s.store.Save(ctx, f.Name, f.Data)
	if err != nil {
		log.Printf("保存压缩包失败 %s: %v", f.Name, err)
		return FileResult{FileName: f.Name, Error: "Failed to process the ZIP file."}
	}

	return FileResult{
		FileName: f.Name,
		Success:  true,
		Message:  "Zip file uploaded successfully.",
		FilePath: publicPath,
	}
}
