package jobs

import (
	"bytes"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
)

// ApplicationsPDF renders a job's applications as a downloadable table.
func (h *Handler) ApplicationsPDF(c *fiber.Ctx) error {
	job, err := h.Store.GetByID(userContext(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Job not found")
		}
		log.Printf("jobs: report load failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not build report")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(20, 20, 20)
	pdf.Cell(0, 10, "Applications: "+job.Title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, job.Company+" - "+job.Location)
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 10)

	colW := []float64{10, 48, 60, 36, 28}
	pdf.CellFormat(colW[0], 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[1], 8, "STUDENT", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[2], 8, "EMAIL", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[3], 8, "APPLIED", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[4], 8, "STATUS", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)

	const maxRows = 200
	for i, app := range job.Applications {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "...truncated (too many rows)", "1", 1, "C", false, 0, "")
			break
		}
		pdf.CellFormat(colW[0], 8, strconv.Itoa(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, clip(app.StudentName, 30), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 8, clip(app.StudentEmail, 40), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, app.AppliedAt.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[4], 8, string(app.Status), "1", 1, "C", false, 0, "")
	}

	if len(job.Applications) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "No applications yet", "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Printf("jobs: report render failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not build report")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="applications.pdf"`)
	return c.Send(buf.Bytes())
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "..."
}
