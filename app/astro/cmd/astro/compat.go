package main

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/compat"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

var compatFlags struct {
	kind     string
	name     string
	birthday string
	html     string
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Date}}</p>
<h2>Strengths</h2>
{{range .Report.Strengths.Aspects}}<h3>{{.Title}}</h3><p>{{.Description}}</p>
{{end}}
<h2>Weaknesses</h2>
{{range .Report.Weaknesses.Aspects}}<h3>{{.Title}}</h3><p>{{.Description}}</p>
{{end}}
<h2>Tips</h2>
<ul>
{{range .Report.Tips}}<li><strong>{{.Tip}}</strong>: {{.Description}}</li>
{{end}}</ul>
</body>
</html>
`))

// reportData 用于模板渲染的数据
type reportData struct {
	Title  string
	Date   string
	Report *compat.Report
}

var compatCmd = &cobra.Command{
	Use:   "compat",
	Short: "生成与对方的兼容性报告",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := dm.ParseKind(compatFlags.kind)
		if err != nil {
			return err
		}
		birthday, err := time.Parse(dm.DateLayout, compatFlags.birthday)
		if err != nil {
			return fmt.Errorf("birthday must be YYYY-MM-DD: %w", err)
		}

		report, err := eng.Compatibility(cmd.Context(), kind, dm.Person{Name: compatFlags.name, Birthday: birthday})
		var decodeErr *compat.DecodeError
		if errors.As(err, &decodeErr) {
			return errors.New(decodeErr.UserMessage())
		}
		if err != nil {
			return err
		}

		if compatFlags.html != "" {
			f, err := os.Create(compatFlags.html)
			if err != nil {
				return fmt.Errorf("无法创建报告文件: %w", err)
			}
			defer f.Close()
			data := reportData{
				Title:  fmt.Sprintf("%s compatibility with %s", kind, compatFlags.name),
				Date:   time.Now().Format(time.DateOnly),
				Report: report,
			}
			if err := reportTmpl.Execute(f, data); err != nil {
				return fmt.Errorf("渲染报告失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "报告已写入 %s\n", compatFlags.html)
			return nil
		}
		printReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func printReport(w io.Writer, r *compat.Report) {
	section := func(name string, s compat.Section) {
		fmt.Fprintf(w, "== %s ==\n", name)
		for _, a := range s.Aspects {
			fmt.Fprintf(w, "* %s\n  %s\n", a.Title, a.Description)
		}
		fmt.Fprintln(w)
	}
	section("Strengths", r.Strengths)
	section("Weaknesses", r.Weaknesses)
	fmt.Fprintln(w, "== Tips ==")
	for i, t := range r.Tips {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, t.Tip, t.Description)
	}
}

func init() {
	f := compatCmd.Flags()
	f.StringVar(&compatFlags.kind, "kind", string(dm.KindFriendship), "friendship 或 partner")
	f.StringVar(&compatFlags.name, "name", "", "对方姓名")
	f.StringVar(&compatFlags.birthday, "birthday", "", "对方生日 (YYYY-MM-DD)")
	f.StringVar(&compatFlags.html, "html", "", "将报告渲染为 HTML 文件")
	_ = compatCmd.MarkFlagRequired("name")
	_ = compatCmd.MarkFlagRequired("birthday")
}
