package conf

type Bootstrap struct {
	Server   *Server
	Analyzer *Analyzer
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr        string
	Timeout     string
	CorsOrigins []string `json:"cors_origins"`
}

type Analyzer struct {
	Llm         *LLM         `json:"llm"`
	Report      *Report      `json:"report"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
	Timeout string `json:"timeout"`
}

type Report struct {
	FontPath string `json:"font_path"`
	Compress *bool  `json:"compress"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
