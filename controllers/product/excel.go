package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/gorm"
)

// GET /admin/products/export
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("category, name").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Name", "Tagline", "Description", "Category",
			"Price", "Stock", "Image", "Featured", "IsActive", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Tagline)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.Category)
			row.AddCell().SetValue(p.Price)
			row.AddCell().SetValue(p.Stock)
			row.AddCell().SetValue(p.Image)
			row.AddCell().SetValue(strconv.FormatBool(p.Featured))
			row.AddCell().SetValue(strconv.FormatBool(p.IsActive))
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

// POST /admin/products/import
// Rows: ID (blank to create), Name, Tagline, Description, Category, Price,
// Stock, Image, Featured. Malformed rows are skipped and counted.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			name := get(1)
			tagline := get(2)
			description := get(3)
			category := get(4)
			price, err1 := strconv.ParseFloat(get(5), 64)
			stock, err2 := strconv.Atoi(get(6))
			image := get(7)
			featured := strings.EqualFold(get(8), "true")

			if name == "" || category == "" || err1 != nil || err2 != nil || price < 0 || stock < 0 {
				skippedCount++
				continue
			}

			product := models.Product{
				Name:        name,
				Tagline:     tagline,
				Description: description,
				Category:    category,
				Price:       price,
				Stock:       stock,
				Image:       image,
				Featured:    featured,
				IsActive:    true,
			}

			if idStr != "" {
				if id, err := strconv.Atoi(idStr); err == nil {
					var existing models.Product
					if err := db.First(&existing, id).Error; err == nil {
						existing.Name = product.Name
						existing.Tagline = product.Tagline
						existing.Description = product.Description
						existing.Category = product.Category
						existing.Price = product.Price
						existing.Stock = product.Stock
						existing.Image = product.Image
						existing.Featured = product.Featured

						if err := db.Save(&existing).Error; err == nil {
							updatedCount++
							continue
						}
					}
				}
				skippedCount++
				continue
			}

			if err := db.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
