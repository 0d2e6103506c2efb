package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/pkg/utils"
)

// CSV 批量导入。两阶段：先把所有行验完（纯校验，不碰磁盘写），
// 再逐行做解压落盘和登记，第一个错误即中止（已写入的行保留）。

// 必需表头
var requiredHeaders = []string{"productId", "shop", "name", "path"}

// CSVService CSV 批量导入服务
type CSVService struct {
	modelSvc *ModelService
	store    AssetStore
}

func NewCSVService(modelSvc *ModelService, store AssetStore) *CSVService {
	return &CSVService{modelSvc: modelSvc, store: store}
}

// ImportResult 导入结果
type ImportResult struct {
	Processed int
	Message   string
}

// importRow 校验通过后的一行
type importRow struct {
	productID string // 规范化后的 gid
	shop      string
	name      string
	zipPath   string // CSV 里写的原始路径
	zipName   string // 存储里的文件名
}

// ==================== 入口 ====================

// Import 处理一份 CSV 载荷
// 返回的 error 都是面向商户的校验/处理信息，controller 原样回 400
func (s *CSVService) Import(ctx context.Context, requestShop, fileName string, data []byte) (*ImportResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("Please upload a CSV file.")
	}
	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		return nil, fmt.Errorf("Please upload a .csv file.")
	}

	records, err := parseCSV(data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty or invalid.")
	}

	rows, err := s.validateRows(ctx, requestShop, records)
	if err != nil {
		return nil, err
	}

	// 第二阶段：逐行落盘 + 登记。行间相互独立，不包事务，
	// 第 N 行失败不回滚前面已写入的行
	for _, row := range rows {
		if err := s.processRow(ctx, row); err != nil {
			return nil, err
		}
	}

	return &ImportResult{
		Processed: len(rows),
		Message:   fmt.Sprintf("CSV processed successfully. %d products have been added/updated.", len(rows)),
	}, nil
}

// ==================== 解析 ====================

// parseCSV 带表头解析，每行映射成 列名 -> 值
func parseCSV(data []byte) ([]map[string]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV file is empty or invalid.")
	}
	if len(all) < 2 {
		return nil, nil
	}

	headers := all[0]
	records := make([]map[string]string, 0, len(all)-1)
	for _, line := range all[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(line) {
				row[strings.TrimSpace(h)] = strings.TrimSpace(line[i])
			}
		}
		records = append(records, row)
	}
	return records, nil
}

// ==================== 第一阶段：纯校验 ====================

func (s *CSVService) validateRows(ctx context.Context, requestShop string, records []map[string]string) ([]importRow, error) {
	// 表头齐不齐
	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := records[0][h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("Missing required headers: %s", strings.Join(missing, ", "))
	}

	// 批内 (productId, 规范化 shop) 不允许重复
	seen := make(map[string]bool, len(records))
	for _, record := range records {
		pairKey := record["productId"] + ":" + utils.NormalizeShopDomain(record["shop"])
		if seen[pairKey] {
			return nil, fmt.Errorf("Duplicate productId and shop combination found: productId=%s, shop=%s",
				record["productId"], record["shop"])
		}
		seen[pairKey] = true
	}

	rows := make([]importRow, 0, len(records))
	for _, record := range records {
		productID := record["productId"]
		recordShop := record["shop"]
		name := record["name"]
		zipPath := record["path"]
		normalizedShop := utils.NormalizeShopDomain(recordShop)

		if productID == "" || normalizedShop == "" || name == "" || zipPath == "" {
			return nil, fmt.Errorf("Missing required fields in row: productId=%s, shop=%s, name=%s, path=%s",
				productID, recordShop, name, zipPath)
		}

		// 行里的店铺必须就是当前登录的店铺
		if normalizedShop != requestShop {
			return nil, fmt.Errorf("Shop in CSV (%s) does not match the current shop (%s).", recordShop, requestShop)
		}

		gid, err := utils.NormalizeProductGID(productID)
		if err != nil {
			return nil, fmt.Errorf("Invalid productId format in row: %s. It must be a numeric value.", productID)
		}

		// 引用的 ZIP 必须已经在上一步上传过
		zipName := strings.TrimPrefix(strings.TrimPrefix(zipPath, "/"), "public/")
		exists, err := s.store.Exists(ctx, zipName)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("Zip file not found at path: %s Please upload zip file first", zipPath)
		}

		rows = append(rows, importRow{
			productID: gid,
			shop:      normalizedShop,
			name:      name,
			zipPath:   zipPath,
			zipName:   zipName,
		})
	}
	return rows, nil
}

// ==================== 第二阶段：落盘 + 登记 ====================

func (s *CSVService) processRow(ctx context.Context, row importRow) error {
	zipData, err := s.store.Open(ctx, row.zipName)
	if err != nil {
		return fmt.Errorf("Zip file not found at path: %s Please upload zip file first", row.zipPath)
	}

	publicPath, err := s.modelSvc.extractModelAsset(ctx, row.productID, zipData)
	if err != nil {
		if err == ErrNoModelInZip {
			return fmt.Errorf("No .gltf or .glb file found in zip: %s", row.zipPath)
		}
		return err
	}

	return s.modelSvc.modelRepo.Upsert(ctx, &model.ProductModel{
		ProductID: row.productID,
		Shop:      row.shop,
		Name:      row.name,
		ZipFile:   &publicPath,
		CreatedAt: time.Now(),
	})
}
