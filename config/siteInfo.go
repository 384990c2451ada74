package config

import (
	"errors"
	"log"
	"sync"

	"github.com/spf13/viper"
)

// SiteInfo is the shop identity printed on receipts and page headers.
type SiteInfo struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
	Phone   string `mapstructure:"phone"`
	Footer  string `mapstructure:"footer"`
}

var (
	siteInfo     SiteInfo
	siteInfoOnce sync.Once
)

// GetSiteInfo loads the optional TOML file at SITE_CONFIG once; SITE_NAME, SITE_ADDRESS,
// SITE_PHONE and SITE_FOOTER override file values.
func GetSiteInfo() SiteInfo {
	siteInfoOnce.Do(func() {
		info, err := LoadSiteInfo(GetEnv("SITE_CONFIG", "config/site.toml"))
		if err != nil {
			log.Printf("site info: %v", err)
		}
		siteInfo = info
	})
	return siteInfo
}

func LoadSiteInfo(path string) (SiteInfo, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("name", "Verdi POS")
	v.SetDefault("address", "")
	v.SetDefault("phone", "")
	v.SetDefault("footer", "Thank you for shopping with us")

	v.SetEnvPrefix("SITE")
	v.AutomaticEnv()
	for _, key := range []string{"name", "address", "phone", "footer"} {
		_ = v.BindEnv(key)
	}

	var readErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// SetConfigFile reports a missing file as a plain fs error
		if !errors.As(err, &notFound) && !isNotExist(err) {
			readErr = err
		}
	}

	var info SiteInfo
	if err := v.Unmarshal(&info); err != nil {
		return SiteInfo{Name: "Verdi POS"}, err
	}
	return info, readErr
}
