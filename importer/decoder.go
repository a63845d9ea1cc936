package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// FileKind tipo de arquivo suportado pela ingestão
type FileKind string

const (
	KindXLSX FileKind = "xlsx"
	KindXLS  FileKind = "xls"
	KindCSV  FileKind = "csv"
	KindXML  FileKind = "xml"
)

// ErrUnrecognizedFormat o decodificador não reconheceu a estrutura do arquivo
var ErrUnrecognizedFormat = errors.New("formato de arquivo não reconhecido")

// KindFromFilename deduz o tipo de arquivo pela extensão
func KindFromFilename(name string) (FileKind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	case ".xls":
		return KindXLS, nil
	case ".csv", ".txt":
		return KindCSV, nil
	case ".xml":
		return KindXML, nil
	}
	return "", fmt.Errorf("extensão não suportada: %s", filepath.Ext(name))
}

// Decoded linhas e colunas extraídas de um arquivo
type Decoded struct {
	Rows    []map[string]string
	Columns []string
}

// Decode converte os bytes de um arquivo em linhas de campos nomeados
func Decode(data []byte, kind FileKind) (*Decoded, error) {
	switch kind {
	case KindXLSX, KindXLS:
		return decodeSpreadsheet(data)
	case KindCSV:
		return decodeCSV(data)
	case KindXML:
		return decodeXML(data)
	}
	return nil, fmt.Errorf("%w: tipo %q", ErrUnrecognizedFormat, kind)
}

// decodeSpreadsheet lê a primeira aba de uma planilha via excelize, usando a
// primeira linha como cabeçalho
func decodeSpreadsheet(data []byte) (*Decoded, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: planilha sem abas", ErrUnrecognizedFormat)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: planilha sem linhas de dados", ErrUnrecognizedFormat)
	}

	return buildDecoded(rows[0], rows[1:]), nil
}

// decodeCSV lê um CSV detectando o separador e decodificando Windows-1252
// quando os bytes não formam UTF-8 válido (exportações legadas de ERP)
func decodeCSV(data []byte) (*Decoded, error) {
	if !utf8.Valid(data) {
		converted, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("%w: codificação inválida: %v", ErrUnrecognizedFormat, err)
		}
		data = converted
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffSeparator(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err)
		}
		records = append(records, record)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: arquivo sem linhas de dados", ErrUnrecognizedFormat)
	}

	return buildDecoded(records[0], records[1:]), nil
}

// sniffSeparator escolhe o separador mais frequente na primeira linha
func sniffSeparator(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	separators := []rune{';', ',', '\t'}
	best := separators[0]
	bestCount := -1
	for _, sep := range separators {
		if count := bytes.Count(line, []byte(string(sep))); count > bestCount {
			best = sep
			bestCount = count
		}
	}
	return best
}

// buildDecoded monta as linhas nomeadas a partir do cabeçalho, descartando
// linhas totalmente vazias
func buildDecoded(header []string, raw [][]string) *Decoded {
	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("coluna_%d", i+1)
		}
		columns[i] = h
	}

	out := &Decoded{Columns: columns}
	for _, record := range raw {
		row := make(map[string]string, len(columns))
		empty := true
		for i, col := range columns {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			if value != "" {
				empty = false
			}
			row[col] = value
		}
		if !empty {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// xmlNode nó XML genérico para caminhar sobre estruturas desconhecidas
type xmlNode struct {
	XMLName xml.Name
	Content string    `xml:",chardata"`
	Nodes   []xmlNode `xml:",any"`
}

// nfeProdFields mapeia os campos de <det><prod> de uma NFe para nomes de coluna
var nfeProdFields = map[string]string{
	"cProd":  "codigo",
	"xProd":  "nome",
	"NCM":    "ncm",
	"CFOP":   "cfop",
	"uCom":   "unidade",
	"qCom":   "quantidade",
	"vUnCom": "valor_unitario",
	"vProd":  "valor_total",
}

// nfeColumnOrder ordem estável das colunas extraídas de uma NFe
var nfeColumnOrder = []string{
	"codigo", "nome", "ncm", "cfop", "unidade", "quantidade", "valor_unitario", "valor_total",
}

// decodeXML extrai linhas de um XML em dois formatos: itens <det><prod> de
// NFe ou nós genéricos <produto|item|product> cujos filhos viram campos
func decodeXML(data []byte) (*Decoded, error) {
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err)
	}

	if decoded := decodeNFe(&root); decoded != nil {
		return decoded, nil
	}
	if decoded := decodeGenericProducts(&root); decoded != nil {
		return decoded, nil
	}

	return nil, fmt.Errorf("%w: XML sem itens <det><prod> nem nós de produto", ErrUnrecognizedFormat)
}

// decodeNFe procura itens <det> contendo <prod> e extrai os campos conhecidos
func decodeNFe(root *xmlNode) *Decoded {
	var rows []map[string]string

	walkXML(root, func(node *xmlNode) {
		if node.XMLName.Local != "det" {
			return
		}
		for i := range node.Nodes {
			prod := &node.Nodes[i]
			if prod.XMLName.Local != "prod" {
				continue
			}
			row := make(map[string]string, len(nfeProdFields))
			for j := range prod.Nodes {
				child := &prod.Nodes[j]
				if column, ok := nfeProdFields[child.XMLName.Local]; ok {
					row[column] = strings.TrimSpace(child.Content)
				}
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
		}
	})

	if len(rows) == 0 {
		return nil
	}
	return &Decoded{Rows: rows, Columns: append([]string(nil), nfeColumnOrder...)}
}

// decodeGenericProducts procura nós <produto|item|product> e converte cada
// elemento filho em um campo nomeado pela tag
func decodeGenericProducts(root *xmlNode) *Decoded {
	var rows []map[string]string
	var columns []string
	seen := make(map[string]bool)

	walkXML(root, func(node *xmlNode) {
		switch strings.ToLower(node.XMLName.Local) {
		case "produto", "item", "product":
		default:
			return
		}
		if len(node.Nodes) == 0 {
			return
		}
		row := make(map[string]string, len(node.Nodes))
		for i := range node.Nodes {
			child := &node.Nodes[i]
			if len(child.Nodes) > 0 {
				// Apenas elementos folha viram campos
				continue
			}
			tag := child.XMLName.Local
			row[tag] = strings.TrimSpace(child.Content)
			if !seen[tag] {
				seen[tag] = true
				columns = append(columns, tag)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})

	if len(rows) == 0 {
		return nil
	}
	return &Decoded{Rows: rows, Columns: columns}
}

// walkXML visita todos os nós da árvore em profundidade
func walkXML(node *xmlNode, visit func(*xmlNode)) {
	visit(node)
	for i := range node.Nodes {
		walkXML(&node.Nodes[i], visit)
	}
}
