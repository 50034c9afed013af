package report

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
)

// FontCandidates 未配置 font_path 时依次探测的中文 TrueType 字体。
// fpdf 只支持 glyf 轮廓的 .ttf，.ttc 与 CFF 的 .otf 不在此列。
var FontCandidates = []string{
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	"/usr/share/fonts/google-droid-sans-fonts/DroidSansFallbackFull.ttf",
	"/usr/share/fonts/truetype/arphic-gbsn00lp/gbsn00lp.ttf",
	"/usr/share/fonts/truetype/arphic-gkai00mp/gkai00mp.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	`C:\Windows\Fonts\simhei.ttf`,
}

// FindFont 返回 candidates 中第一个存在的普通文件
func FindFont(candidates []string) (string, bool) {
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// checkFont 试加载一次字体。fpdf 解析失败时只打印错误并跳过注册，
// 这里借 SetFont 的 undefined font 把它变成返回值。
func checkFont(ttf []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse font: %v", r)
		}
	}()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddUTF8FontFromBytes(utf8Family, "", ttf)
	pdf.SetFont(utf8Family, "", 12)
	return pdf.Error()
}
