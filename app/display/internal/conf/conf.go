package conf

type Bootstrap struct {
	Server *Server
	Astro  *Astro
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Astro struct {
	Llm         *LLM         `json:"llm"`
	Chart       *Chart       `json:"chart"`
	Assistant   *Assistant   `json:"assistant"`
	Geocoder    *Geocoder    `json:"geocoder"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Store       *Store       `json:"store"`
}

type LLM struct {
	BaseUrl      string `json:"base_url"`
	ApiKey       string `json:"api_key"`
	Model        string `json:"model"`
	MaxTokens    int32  `json:"max_tokens"`
	MaxRetries   int32  `json:"max_retries"`
	LexicalTitle bool   `json:"lexical_title"`
}

type Chart struct {
	BaseUrl  string `json:"base_url"`
	ApiKey   string `json:"api_key"`
	Host     string `json:"host"`
	Timezone string `json:"timezone"`
	Timeout  int32  `json:"timeout"`
}

type Assistant struct {
	Url     string `json:"url"`
	Timeout int32  `json:"timeout"`
}

type Geocoder struct {
	BaseUrl   string `json:"base_url"`
	UserAgent string `json:"user_agent"`
	Timeout   int32  `json:"timeout"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type Store struct {
	Driver string `json:"driver"`
	Dsn    string `json:"dsn"`
}
