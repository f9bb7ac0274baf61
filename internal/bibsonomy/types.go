package bibsonomy

// Wire types for the BibSonomy REST API JSON envelope. Only the fields
// the pipeline consumes are mapped.

type postsResponse struct {
	Posts struct {
		Post []wirePost `json:"post"`
	} `json:"posts"`
}

type wirePost struct {
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	BibTex    wireBibTex `json:"bibtex"`
	Documents *struct {
		Document []wireDocument `json:"document"`
	} `json:"documents"`
}

type wireBibTex struct {
	IntraHash string `json:"intrahash"`
	EntryType string `json:"entrytype"`
	Title     string `json:"title"`
	Author    string `json:"author"` // "Last, First and Last, First"
	Editor    string `json:"editor"`
	Year      string `json:"year"`
	Date      string `json:"date"` // Raw issue date when no literal year
	Abstract  string `json:"abstract"`
	URL       string `json:"url"`
	DOI       string `json:"doi"`
	Misc      string `json:"misc"` // May carry "doi = {...}" among other fields
}

type wireDocument struct {
	FileName string `json:"filename"`
	MD5Hash  string `json:"md5hash"`
}
