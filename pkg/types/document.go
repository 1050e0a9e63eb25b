// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PageStatus is the edit status attached to a page transcript on update.
type PageStatus string

const (
	StatusNew        PageStatus = "NEW"
	StatusInProgress PageStatus = "IN_PROGRESS"
	StatusDone       PageStatus = "DONE"
	StatusFinal      PageStatus = "FINAL"
	StatusGT         PageStatus = "GT"
)

// Document is one entry of a collection listing.
type Document struct {
	DocID     int    `json:"docId" yaml:"doc_id"`
	Title     string `json:"title" yaml:"title"`
	NrOfPages int    `json:"nrOfPages,omitempty" yaml:"nr_of_pages,omitempty"`
	Uploader  string `json:"uploader,omitempty" yaml:"uploader,omitempty"`
}

// PageEntry is one page of a remote document manifest.
type PageEntry struct {
	PageNr      int    `json:"pageNr" yaml:"page_nr"`
	ImgFileName string `json:"imgFileName" yaml:"img_file_name"`
}

// FullDocument is the subset of the fulldoc response this tool reads.
// Pages are kept in the order the server returned them.
type FullDocument struct {
	MD struct {
		DocID int    `json:"docId"`
		Title string `json:"title"`
	} `json:"md"`
	PageList struct {
		Pages []PageEntry `json:"pages"`
	} `json:"pageList"`
}

// Pages returns the manifest entries.
func (d *FullDocument) Pages() []PageEntry {
	return d.PageList.Pages
}

// PageRecord describes one local page image queued for upload. The JSON
// field names are the ones the uploads endpoint expects.
type PageRecord struct {
	FileName    string `json:"fileName" yaml:"file_name"`
	PageNr      int    `json:"pageNr" yaml:"page_nr"`
	PageXMLName string `json:"pageXmlName" yaml:"page_xml_name"`
}
